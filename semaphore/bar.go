/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package semaphore

import (
	"context"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Bar is a single progress indicator created by a Semaphore. Every method
// is a no-op on a bar obtained from a Semaphore created without progress
// tracking, except Total, which still reports the configured total.
type Bar interface {
	// NewWorker mirrors Semaphore.NewWorker, letting a bar double as a
	// per-task rate limiter when its owner wires one in.
	NewWorker() error

	// DeferWorker increments the bar by one and releases the matching
	// worker slot.
	DeferWorker()

	// Total returns the bar's configured size, or 0 for a no-op bar.
	Total() int64

	// Inc advances the bar by n units.
	Inc(n int)

	// Inc64 advances the bar by n units.
	Inc64(n int64)

	// Complete marks the bar as finished at its current total.
	Complete()

	// Completed reports whether the bar has finished.
	Completed() bool
}

type barKind uint8

const (
	barNumber barKind = iota
	barBytes
	barTime
)

// progress wraps the mpb.Progress container shared by every bar and clone
// created from the same Semaphore.
type progress struct {
	p *mpb.Progress
}

func newProgress(ctx context.Context) *progress {
	return &progress{p: mpb.NewWithContext(ctx)}
}

func (g *progress) container() interface{} {
	return g.p
}

func (g *progress) wait() {
	g.p.Wait()
}

func (g *progress) newBar(title, desc string, total int64, drop bool, queueAfter Bar, kind barKind) Bar {
	var opts []mpb.BarOption

	opts = append(opts, mpb.PrependDecorators(
		decor.Name(title),
		decor.Name(desc, decor.WCSyncSpaceR),
	))

	switch kind {
	case barBytes:
		opts = append(opts, mpb.AppendDecorators(decor.CountersKibiByte("% .2f / % .2f")))
	case barTime:
		opts = append(opts, mpb.AppendDecorators(decor.ETA(decor.ET_STYLE_GO, 0, decor.WCSyncSpace)))
	default:
		opts = append(opts, mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")))
	}

	if drop {
		opts = append(opts, mpb.BarRemoveOnComplete())
	}

	if qa, ok := queueAfter.(*bar); ok && qa != nil {
		opts = append(opts, mpb.BarQueueAfter(qa.b, false))
	}

	return &bar{b: g.p.AddBar(total, opts...), total: total}
}

type bar struct {
	b     *mpb.Bar
	total int64

	mu   sync.Mutex
	done bool
}

func noopBar(int64) Bar {
	return &noop{}
}

func (b *bar) NewWorker() error {
	return nil
}

func (b *bar) DeferWorker() {
	b.Inc(1)
}

func (b *bar) Total() int64 {
	return b.total
}

func (b *bar) Inc(n int) {
	b.b.IncrBy(n)
}

func (b *bar) Inc64(n int64) {
	b.b.IncrInt64(n)
}

func (b *bar) Complete() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done {
		return
	}
	b.done = true
	b.b.SetTotal(b.total, true)
}

func (b *bar) Completed() bool {
	return b.b.Completed()
}

// noop is the Bar returned by a Semaphore created without progress
// tracking: it tracks nothing, but still reports its configured total as
// 0, matching a bar that was never wired to a progress container.
type noop struct{}

func (n *noop) NewWorker() error { return nil }
func (n *noop) DeferWorker()     {}
func (n *noop) Total() int64     { return 0 }
func (n *noop) Inc(int)          {}
func (n *noop) Inc64(int64)      {}
func (n *noop) Complete()        {}
func (n *noop) Completed() bool  { return true }
