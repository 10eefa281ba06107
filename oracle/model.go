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

package oracle

import (
	"sync"

	liberr "github.com/nabbar/thttpd-core/erro"
)

// Interest is the set of readiness events a registered descriptor cares
// about. A descriptor may be registered for read or write, never both at
// once, matching the connection manager's state machine (a socket is
// either being read from or written to at any given time).
type Interest uint8

const (
	InterestRead Interest = 1 << iota
	InterestWrite
)

type entry struct {
	fd       int
	interest Interest
	tag      interface{}
}

// Oracle multiplexes readiness across a bounded set of file descriptors.
// One Oracle belongs to one main loop; Wait is the only call that blocks.
type Oracle struct {
	mu  sync.Mutex
	cap int

	byFd  map[int]*entry
	order []int

	ready map[int]bool
}

// New prepares an Oracle able to track up to capacity descriptors. A
// non-positive capacity is rejected.
func New(capacity int) (*Oracle, liberr.Error) {
	if capacity <= 0 {
		return nil, ErrorCapacity.Error()
	}

	return &Oracle{
		cap:   capacity,
		byFd:  make(map[int]*entry, capacity),
		order: make([]int, 0, capacity),
		ready: make(map[int]bool),
	}, nil
}

// Len returns the number of descriptors currently registered.
func (o *Oracle) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.byFd)
}

// Add registers fd for the given interest, tagging it with an opaque value
// returned later by Iter. Re-registering an already-present fd is an error;
// Del it first.
func (o *Oracle) Add(fd int, interest Interest, tag interface{}) liberr.Error {
	if fd < 0 {
		return ErrorParamEmpty.Error()
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.byFd[fd]; ok {
		return ErrorFdAlreadyPresent.Error()
	}

	if len(o.byFd) >= o.cap {
		return ErrorCapacity.Error()
	}

	o.byFd[fd] = &entry{fd: fd, interest: interest, tag: tag}
	o.order = append(o.order, fd)

	return nil
}

// Del unregisters fd. Safe to call on an fd that was never added, or that
// has already been removed.
func (o *Oracle) Del(fd int) liberr.Error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.byFd[fd]; !ok {
		return ErrorFdNotPresent.Error()
	}

	delete(o.byFd, fd)
	delete(o.ready, fd)

	for i, f := range o.order {
		if f == fd {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}

	return nil
}

// Check reports whether fd was part of the most recent Wait's ready batch.
func (o *Oracle) Check(fd int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ready[fd]
}

// Iter walks the most recent ready batch in registration order, yielding
// each descriptor's tag. Iteration order is arbitrary beyond that; callers
// must not assume fairness across batches.
func (o *Oracle) Iter(fn func(fd int, tag interface{})) {
	o.mu.Lock()
	order := append([]int(nil), o.order...)
	ready := o.ready
	byFd := o.byFd
	o.mu.Unlock()

	for _, fd := range order {
		if !ready[fd] {
			continue
		}
		if e, ok := byFd[fd]; ok {
			fn(fd, e.tag)
		}
	}
}
