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

package connmgr

import (
	"net"
	"os"
	"os/exec"
	"time"

	"github.com/nabbar/thttpd-core/httpcore"
	"github.com/nabbar/thttpd-core/timer"

	liberr "github.com/nabbar/thttpd-core/erro"
)

// State is where a Conn sits in the connection lifecycle.
type State uint8

const (
	// StateFree is the only state in which a Conn is on the pool's free
	// list, has no fd registered with the oracle and no timer running.
	StateFree State = iota
	StateReading
	StateSending
	StatePausing
	StateLingering
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "FREE"
	case StateReading:
		return "READING"
	case StateSending:
		return "SENDING"
	case StatePausing:
		return "PAUSING"
	case StateLingering:
		return "LINGERING"
	default:
		return "UNKNOWN"
	}
}

// Conn is one slot in the fixed-size arena Pool manages. Its zero value is
// a valid FREE connection; Acquire/Release reuse it across clients without
// ever reallocating the struct itself.
type Conn struct {
	Index int
	State State

	Fd   int
	Conn net.Conn

	RemoteAddr string
	AcceptedAt time.Time
	ActiveAt   time.Time

	Request *httpcore.Request

	// Outgoing response buffer: headers (and, for small bodies, the whole
	// body) built once at dispatch time; Mapped is the file-backed body
	// for the common case, returned to filecache on completion.
	HeaderBuf []byte
	Mapped    []byte
	MappedLen int64

	NextByteIndex int64
	EndByteIndex  int64

	ShouldLinger bool
	LingerBuf    []byte

	// CGI handoff. Cmd is non-nil exactly while a child is running on
	// behalf of this connection.
	Cmd             *exec.Cmd
	CGIPipeIn       *os.File
	CGIPipeOut      *os.File
	CGIOutFd        int
	CGIBody         []byte // pending POST bytes still to be written to CGIPipeIn
	CGIOut          []byte // output accumulated from CGIPipeOut, interposed on completion
	NonParsedHeader bool
	CGICancel       func()

	WakeupTimer timer.Handle
	LingerTimer timer.Handle

	// Throttle binding. Nil when the request matched no rule.
	Throttle *boundThrottle
	RateBudget float64 // bytes available to send right now, replenished by Redistribute

	freeNext int
}

func (c *Conn) reset() {
	idx := c.Index
	next := c.freeNext
	req := c.Request
	if req != nil {
		req.Reset()
	} else {
		req = &httpcore.Request{}
	}
	*c = Conn{Index: idx, freeNext: next, Request: req}
}

// Pool is the fixed-size connection arena: allocated once at startup,
// never grown, so the server's worst-case memory and fd usage are both
// bounded by capacity.
type Pool struct {
	conns    []Conn
	freeHead int
	active   int
}

const poolEnd = -1

// NewPool allocates a pool able to hold capacity simultaneous connections.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		capacity = 1
	}

	p := &Pool{conns: make([]Conn, capacity)}
	for i := range p.conns {
		p.conns[i].Index = i
		p.conns[i].Request = &httpcore.Request{}
		if i == len(p.conns)-1 {
			p.conns[i].freeNext = poolEnd
		} else {
			p.conns[i].freeNext = i + 1
		}
	}

	return p
}

// Cap reports the pool's fixed capacity.
func (p *Pool) Cap() int {
	return len(p.conns)
}

// Active reports how many connections are currently claimed.
func (p *Pool) Active() int {
	return p.active
}

// Acquire claims the head of the free list, transitioning it out of
// StateFree. Returns ErrorPoolExhausted when every slot is in use.
func (p *Pool) Acquire() (*Conn, liberr.Error) {
	if p.freeHead == poolEnd {
		return nil, ErrorPoolExhausted.Error()
	}

	c := &p.conns[p.freeHead]
	p.freeHead = c.freeNext
	c.freeNext = -2 // sentinel: not on the free list
	p.active++

	return c, nil
}

// Release returns c to the free list. c must carry no registered fd, no
// pending timer and no bound throttle slot; HandleX callers are
// responsible for tearing those down first.
func (p *Pool) Release(c *Conn) {
	if c.Index < 0 || c.Index >= len(p.conns) || &p.conns[c.Index] != c {
		return
	}

	c.reset()
	c.freeNext = p.freeHead
	p.freeHead = c.Index
	p.active--
}

// ByIndex returns the connection at index, or nil if out of range. Used to
// recover a *Conn from the opaque tag the Oracle hands back.
func (p *Pool) ByIndex(index int) *Conn {
	if index < 0 || index >= len(p.conns) {
		return nil
	}
	return &p.conns[index]
}
