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

	xsync "golang.org/x/sync/semaphore"
)

type sem struct {
	context.Context

	cancel context.CancelFunc
	weight int64
	sem    *xsync.Weighted
	pgb    *progress
}

func (s *sem) Weighted() int64 {
	return s.weight
}

func (s *sem) NewWorker() error {
	if s.sem == nil {
		return nil
	}
	return s.sem.Acquire(s.Context, 1)
}

func (s *sem) NewWorkerTry() bool {
	if s.sem == nil {
		return true
	}
	return s.sem.TryAcquire(1)
}

func (s *sem) DeferWorker() {
	if s.sem == nil {
		return
	}
	s.sem.Release(1)
}

func (s *sem) WaitAll() error {
	if s.sem == nil || s.weight <= 0 {
		return nil
	}

	if err := s.sem.Acquire(s.Context, s.weight); err != nil {
		return err
	}
	s.sem.Release(s.weight)
	return nil
}

func (s *sem) DeferMain() {
	if s.pgb != nil {
		s.pgb.wait()
	}
	s.cancel()
}

func (s *sem) Clone() Semaphore {
	cld, cancel := context.WithCancel(s.Context)

	n := &sem{
		Context: cld,
		cancel:  cancel,
		weight:  s.weight,
		pgb:     s.pgb,
	}

	if s.weight > 0 {
		n.sem = xsync.NewWeighted(s.weight)
	}

	return n
}

func (s *sem) GetMPB() interface{} {
	if s.pgb == nil {
		return nil
	}
	return s.pgb.container()
}

func (s *sem) BarBytes(title, desc string, total int64, drop bool, queueAfter Bar) Bar {
	if s.pgb == nil {
		return noopBar(total)
	}
	return s.pgb.newBar(title, desc, total, drop, queueAfter, barBytes)
}

func (s *sem) BarTime(title, desc string, total int64, drop bool, queueAfter Bar) Bar {
	if s.pgb == nil {
		return noopBar(total)
	}
	return s.pgb.newBar(title, desc, total, drop, queueAfter, barTime)
}

func (s *sem) BarNumber(title, desc string, total int64, drop bool, queueAfter Bar) Bar {
	if s.pgb == nil {
		return noopBar(total)
	}
	return s.pgb.newBar(title, desc, total, drop, queueAfter, barNumber)
}

func (s *sem) BarOpts(total int64, drop bool) Bar {
	if s.pgb == nil {
		return noopBar(total)
	}
	return s.pgb.newBar("", "", total, drop, nil, barNumber)
}
