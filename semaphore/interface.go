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

// Package semaphore bounds the number of concurrent workers a caller may
// run, optionally reporting their progress through a shared mpb progress
// container.
package semaphore

import (
	"context"
	"runtime"

	xsync "golang.org/x/sync/semaphore"
)

// Semaphore limits concurrent work to a weighted budget. It embeds
// context.Context: Deadline/Done/Err/Value delegate to the context the
// semaphore was created with, and DeferMain cancels its own derived
// context so Done() unblocks callers waiting on it.
type Semaphore interface {
	context.Context

	// Weighted returns the configured concurrency budget, or -1 when the
	// semaphore was created unlimited.
	Weighted() int64

	// NewWorker blocks until a slot is available or the context is done.
	NewWorker() error

	// NewWorkerTry acquires a slot without blocking, reporting success.
	NewWorkerTry() bool

	// DeferWorker releases a slot acquired by NewWorker/NewWorkerTry.
	DeferWorker()

	// WaitAll blocks until every outstanding worker has been released.
	WaitAll() error

	// DeferMain releases resources and cancels the semaphore's context.
	DeferMain()

	// Clone returns a new Semaphore with the same weight, sharing the
	// same progress container (if any) as the original.
	Clone() Semaphore

	// BarBytes returns a byte-count progress bar, queued after
	// queueAfter (if non-nil). Returns a no-op bar when the semaphore
	// was created without progress tracking.
	BarBytes(title, desc string, total int64, drop bool, queueAfter Bar) Bar

	// BarTime returns a duration-flavored progress bar.
	BarTime(title, desc string, total int64, drop bool, queueAfter Bar) Bar

	// BarNumber returns a plain-count progress bar.
	BarNumber(title, desc string, total int64, drop bool, queueAfter Bar) Bar

	// BarOpts returns a bar with no title/description decorators.
	BarOpts(total int64, drop bool) Bar

	// GetMPB returns the underlying progress container, or nil when the
	// semaphore was created without progress tracking.
	GetMPB() interface{}
}

// MaxSimultaneous returns a sensible default concurrency budget derived
// from the number of available CPUs.
func MaxSimultaneous() int64 {
	n := int64(runtime.NumCPU()) * 4
	if n < 1 {
		return 1
	}
	return n
}

// SetSimultaneous returns n unchanged when it is a usable budget (n > 0),
// and MaxSimultaneous() otherwise.
func SetSimultaneous(n int64) int64 {
	if n <= 0 {
		return MaxSimultaneous()
	}
	return n
}

// New returns a Semaphore bounded to n concurrent workers. n <= 0 means
// unlimited: NewWorker/NewWorkerTry never block. withProgress attaches a
// shared mpb progress container used by the Bar* constructors.
func New(ctx context.Context, n int64, withProgress bool) Semaphore {
	if ctx == nil {
		ctx = context.Background()
	}

	cld, cancel := context.WithCancel(ctx)

	s := &sem{
		Context: cld,
		cancel:  cancel,
		weight:  n,
	}

	if n > 0 {
		s.sem = xsync.NewWeighted(n)
	}

	if withProgress {
		s.pgb = newProgress(cld)
	}

	return s
}
