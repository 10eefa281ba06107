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
	"time"

	liberr "github.com/nabbar/thttpd-core/erro"
	"golang.org/x/sys/unix"
)

// Wait blocks up to timeoutMs (a negative value waits indefinitely) until
// at least one registered descriptor is ready, returning the number ready.
// A zero return means the deadline elapsed with nothing ready. EINTR is
// absorbed internally: Wait keeps polling the remaining budget rather than
// surfacing a retryable error to the caller.
func (o *Oracle) Wait(timeoutMs int) (int, liberr.Error) {
	o.mu.Lock()
	pfds := make([]unix.PollFd, 0, len(o.order))
	tags := make([]int, 0, len(o.order))
	for _, fd := range o.order {
		e := o.byFd[fd]
		var events int16
		if e.interest&InterestRead != 0 {
			events |= unix.POLLIN
		}
		if e.interest&InterestWrite != 0 {
			events |= unix.POLLOUT
		}
		pfds = append(pfds, unix.PollFd{Fd: int32(fd), Events: events})
		tags = append(tags, fd)
	}
	o.mu.Unlock()

	deadline := time.Time{}
	if timeoutMs >= 0 {
		deadline = time.Now().Add(time.Duration(timeoutMs) * time.Millisecond)
	}

	remaining := timeoutMs
	for {
		n, err := unix.Poll(pfds, remaining)

		if err == unix.EINTR {
			if timeoutMs < 0 {
				continue
			}
			remaining = int(time.Until(deadline) / time.Millisecond)
			if remaining < 0 {
				remaining = 0
			}
			continue
		}

		if err != nil {
			return 0, ErrorWait.Error(err)
		}

		ready := make(map[int]bool, n)
		count := 0

		for i, pf := range pfds {
			if pf.Revents == 0 {
				continue
			}
			// any error/hangup bit reduces to "not-ready" for this fd; the
			// caller rediscovers the failure on its next read or write.
			if pf.Revents&(unix.POLLIN|unix.POLLOUT) == 0 {
				continue
			}
			ready[tags[i]] = true
			count++
		}

		o.mu.Lock()
		o.ready = ready
		o.mu.Unlock()

		return count, nil
	}
}
