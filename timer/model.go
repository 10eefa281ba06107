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
	"sync"
	"time"
)

// Kind enumerates the callback variants the original passed through an
// untyped ClientData union.
type Kind uint8

const (
	KindWakeup Kind = iota
	KindLinger
	KindCgiKill
	KindOccasional
	KindIdle
	KindUpdateThrottles
	KindShowStats
)

// ClientData is the typed payload a fired timer hands to its callback.
// ConnID and Pid are populated according to Kind; the rest stay zero.
type ClientData struct {
	Kind   Kind
	ConnID int
	Pid    int
}

// Callback is invoked when a timer fires, with the ClientData it was
// created with. A callback may create or cancel timers; such changes are
// only visible to the next call to Run.
type Callback func(data ClientData)

// Handle cancels the timer it was returned for.
type Handle uint64

type timerEntry struct {
	handle   Handle
	deadline time.Time
	period   time.Duration
	periodic bool
	callback Callback
	data     ClientData
	seq      uint64
	canceled bool
	index    int
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x interface{}) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Wheel orders pending timers by deadline, ties broken by creation order.
type Wheel struct {
	mu      sync.Mutex
	h       timerHeap
	byID    map[Handle]*timerEntry
	nextID  Handle
	nextSeq uint64
}

// New returns an empty timer wheel.
func New() *Wheel {
	return &Wheel{
		h:    make(timerHeap, 0),
		byID: make(map[Handle]*timerEntry),
	}
}
