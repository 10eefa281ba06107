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

package cgi

import (
	"sync/atomic"

	liberr "github.com/nabbar/thttpd-core/erro"
	"golang.org/x/sync/semaphore"
)

// Supervisor enforces the server-wide concurrency ceiling on running CGI
// children and tracks the live count for stats and reaping.
type Supervisor struct {
	sem   *semaphore.Weighted
	limit int64
	count int64
}

// NewSupervisor returns a Supervisor admitting at most limit concurrent
// children. A non-positive limit is treated as 1: the ceiling always exists.
func NewSupervisor(limit int) *Supervisor {
	if limit <= 0 {
		limit = 1
	}
	return &Supervisor{sem: semaphore.NewWeighted(int64(limit)), limit: int64(limit)}
}

// TryAcquire attempts to reserve one concurrency slot, returning an
// ErrorConcurrencyLimit Error if the ceiling is currently full.
func (s *Supervisor) TryAcquire() liberr.Error {
	if !s.sem.TryAcquire(1) {
		return ErrorConcurrencyLimit.Error()
	}
	atomic.AddInt64(&s.count, 1)
	return nil
}

// Release returns one concurrency slot, invoked once per reaped child.
// Floors at zero: a stray extra Release is harmless, never negative.
func (s *Supervisor) Release() {
	s.sem.Release(1)
	for {
		cur := atomic.LoadInt64(&s.count)
		if cur <= 0 {
			atomic.StoreInt64(&s.count, 0)
			return
		}
		if atomic.CompareAndSwapInt64(&s.count, cur, cur-1) {
			return
		}
	}
}

// Count reports the number of children currently running.
func (s *Supervisor) Count() int64 {
	return atomic.LoadInt64(&s.count)
}

// Limit reports the configured concurrency ceiling.
func (s *Supervisor) Limit() int64 {
	return s.limit
}
