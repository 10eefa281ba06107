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
	"time"

	"github.com/nabbar/thttpd-core/oracle"
	"github.com/nabbar/thttpd-core/timer"
)

// sendChunkCeiling bounds a single non-blocking write attempt, keeping one
// connection's turn on the main loop short even against a socket willing
// to take more.
const sendChunkCeiling = 64 * 1024

// beginSending arms a connection for its response: headers first, then
// (for mapped responses) the file body. It registers the fd for write
// readiness and leaves the actual bytes to handleWritable.
func (m *Manager) beginSending(c *Conn, now time.Time) {
	if c.WakeupTimer != 0 {
		_ = m.wheel.Cancel(c.WakeupTimer)
		c.WakeupTimer = 0
	}

	_ = m.oracle.Del(c.Fd)

	c.State = StateSending
	c.ActiveAt = now

	if regErr := m.oracle.Add(c.Fd, oracle.InterestWrite, c); regErr != nil {
		m.closeConn(c)
		return
	}

	m.handleWritable(c, now)
}

// handleWritable performs one throttled, non-blocking write attempt: the
// header block first, then the mapped body (or the synthesized buffer,
// which beginSending already concatenated into HeaderBuf for the no-file
// cases, leaving Mapped nil).
func (m *Manager) handleWritable(c *Conn, now time.Time) {
	budget := sendChunkCeiling
	if c.Throttle != nil {
		b := int(c.Throttle.Budget())
		if b > 0 && b < budget {
			budget = b
		}
	}

	if len(c.HeaderBuf) > 0 {
		n, err := nbWrite(c.Fd, capChunk(c.HeaderBuf, budget))
		if wouldBlock(err) {
			m.toPausing(c, now)
			return
		}
		if n < 0 || (n == 0 && err != nil) {
			m.closeConn(c)
			return
		}
		c.HeaderBuf = c.HeaderBuf[n:]
		c.Request.BytesSent += int64(n)
		budget -= n
		c.ActiveAt = now
		m.rearmIdle(c, now)
		if len(c.HeaderBuf) > 0 || budget <= 0 {
			m.rearmIdle(c, now)
			return
		}
	}

	if c.Mapped == nil {
		m.finishSend(c, now)
		return
	}

	for c.NextByteIndex < c.EndByteIndex && budget > 0 {
		end := c.NextByteIndex + int64(budget)
		if end > c.EndByteIndex {
			end = c.EndByteIndex
		}

		n, err := nbWrite(c.Fd, c.Mapped[c.NextByteIndex:end])
		if wouldBlock(err) {
			m.toPausing(c, now)
			return
		}
		if n <= 0 {
			m.closeConn(c)
			return
		}

		c.NextByteIndex += int64(n)
		c.Request.BytesSent += int64(n)
		budget -= n
		c.ActiveAt = now
		m.rearmIdle(c, now)
	}

	if c.NextByteIndex >= c.EndByteIndex {
		m.finishSend(c, now)
	} else {
		m.rearmIdle(c, now)
	}
}

func capChunk(buf []byte, n int) []byte {
	if n <= 0 {
		return buf[:0]
	}
	if len(buf) <= n {
		return buf
	}
	return buf[:n]
}

// toPausing marks a connection PAUSING: the socket send buffer is full, or
// its throttle budget for this tick is exhausted. It stays registered for
// write readiness; the oracle will wake it again once the kernel reports
// room, or the next Redistribute will refresh its budget.
func (m *Manager) toPausing(c *Conn, now time.Time) {
	c.State = StatePausing
	m.rearmIdle(c, now)
}

// finishSend releases the mapped file (if any), unbinds the throttle slot,
// and moves the connection into LINGERING to drain and discard any
// trailing bytes the client sends before the socket is finally closed.
func (m *Manager) finishSend(c *Conn, now time.Time) {
	m.logAccess(c, now)

	if c.Mapped != nil {
		_ = m.cache.Unmap(c.Mapped, c.Request.Info, now)
		c.Mapped = nil
	}
	if c.Throttle != nil {
		c.Throttle.Unbind()
		c.Throttle = nil
	}

	_ = m.oracle.Del(c.Fd)
	_ = m.oracle.Add(c.Fd, oracle.InterestRead, c)

	c.State = StateLingering
	c.LingerTimer = m.wheel.Create(now.Add(LingerTimeout), m.onLingerFire,
		timer.ClientData{Kind: timer.KindLinger, ConnID: c.Index}, 0, false)
}

func (m *Manager) onLingerFire(data timer.ClientData) {
	c := m.Pool.ByIndex(data.ConnID)
	if c == nil || c.State != StateLingering {
		return
	}
	m.closeConn(c)
}
