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

package timer

import (
	"container/heap"
	"time"

	liberr "github.com/nabbar/thttpd-core/erro"
)

// Create schedules callback to fire at 'at', with data handed back
// verbatim. A non-zero period makes the timer periodic: after firing it
// reschedules at prevDeadline+period rather than being dropped.
func (w *Wheel) Create(at time.Time, callback Callback, data ClientData, period time.Duration, periodic bool) Handle {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	w.nextSeq++

	e := &timerEntry{
		handle:   w.nextID,
		deadline: at,
		period:   period,
		periodic: periodic,
		callback: callback,
		data:     data,
		seq:      w.nextSeq,
	}

	heap.Push(&w.h, e)
	w.byID[e.handle] = e

	return e.handle
}

// Cancel marks handle canceled. Idempotent: canceling an already-fired
// one-shot, or an already-canceled timer, is a no-op rather than an error.
func (w *Wheel) Cancel(handle Handle) liberr.Error {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.byID[handle]
	if !ok {
		return nil
	}

	e.canceled = true
	delete(w.byID, handle)

	return nil
}

// Run fires every timer whose deadline is at or before now, in ascending
// deadline order (ties broken by creation order), and returns how many
// fired. Periodic timers are popped, rescheduled at prevDeadline+period,
// and pushed back before the next pop, so a callback that inspects the
// wheel never observes a timer missing mid-Run.
func (w *Wheel) Run(now time.Time) int {
	fired := 0

	for {
		w.mu.Lock()
		if w.h.Len() == 0 {
			w.mu.Unlock()
			break
		}

		top := w.h[0]
		if top.deadline.After(now) {
			w.mu.Unlock()
			break
		}

		e := heap.Pop(&w.h).(*timerEntry)

		if e.canceled {
			w.mu.Unlock()
			continue
		}

		if e.periodic {
			e.deadline = e.deadline.Add(e.period)
			heap.Push(&w.h, e)
		} else {
			delete(w.byID, e.handle)
		}
		w.mu.Unlock()

		if e.callback != nil {
			e.callback(e.data)
		}
		fired++
	}

	return fired
}

// NextTimeoutMs returns milliseconds until the earliest pending deadline,
// or -1 if the wheel is empty. A deadline already in the past reports 0.
func (w *Wheel) NextTimeoutMs(now time.Time) int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.h.Len() == 0 {
		return -1
	}

	d := w.h[0].deadline.Sub(now)
	if d < 0 {
		return 0
	}

	return int64(d / time.Millisecond)
}

// Len reports how many timers (fired periodics included) are pending.
func (w *Wheel) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.h.Len()
}
