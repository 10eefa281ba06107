/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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
 *
 */

package corectx

import (
	"sync/atomic"
	"time"
)

// Watchdog is the Go rendering of the original's SIGALRM-driven deadlock
// guard: instead of the process alarm(2)-ing itself and handling SIGALRM,
// a time.Ticker on its own goroutine plays the alarm's role directly,
// since Go gives no cheap way to deliver SIGALRM to a single in-process
// handler without the same ticker machinery underneath anyway.
//
// Each main-loop iteration calls Tick; if two ticker periods pass without
// an intervening Tick, the loop is presumed stuck and abort is invoked.
type Watchdog struct {
	interval time.Duration
	ticked   int32
	stop     chan struct{}
}

// NewWatchdog returns a Watchdog armed with the given check interval.
// Start must be called to begin watching.
func NewWatchdog(interval time.Duration) *Watchdog {
	return &Watchdog{interval: interval, stop: make(chan struct{})}
}

// Tick marks the main loop as having made forward progress since the
// watchdog's last check. Safe to call every iteration; cheap enough that
// it never needs throttling on its own.
func (w *Watchdog) Tick() {
	if w == nil {
		return
	}
	atomic.StoreInt32(&w.ticked, 1)
}

// Start begins the periodic check on its own goroutine. If a period
// elapses with no Tick since the previous one, abort is invoked once and
// the goroutine exits; abort is expected not to return (os.Exit, a fatal
// log call, or similar), matching the original's "abort if not ticked
// since previous tick."
func (w *Watchdog) Start(abort func()) {
	if w == nil || abort == nil {
		return
	}

	go func() {
		t := time.NewTicker(w.interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				if !atomic.CompareAndSwapInt32(&w.ticked, 1, 0) {
					abort()
					return
				}
			case <-w.stop:
				return
			}
		}
	}()
}

// Stop ends the watchdog's goroutine without invoking abort.
func (w *Watchdog) Stop() {
	if w == nil {
		return
	}
	close(w.stop)
}
