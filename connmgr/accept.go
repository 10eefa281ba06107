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

// Pump is the one call corectx's main loop makes after every oracle.Wait
// that returns ready descriptors: it walks the ready batch in listener-
// first order (so a burst of incoming connections never starves already-
// established ones it could have served this tick) and advances each.
func (m *Manager) Pump(now time.Time) {
	var listeners []listenerTag
	var ready []*Conn
	var cgiReady []*Conn

	m.oracle.Iter(func(fd int, tag interface{}) {
		switch t := tag.(type) {
		case listenerTag:
			listeners = append(listeners, t)
		case *Conn:
			ready = append(ready, t)
		case cgiOutTag:
			cgiReady = append(cgiReady, t.conn)
		}
	})

	for _, idx := range listeners {
		m.acceptOne(int(idx), now)
	}

	for _, c := range ready {
		switch c.State {
		case StateReading:
			m.handleReadable(c, now)
		case StateSending, StatePausing:
			m.handleWritable(c, now)
		case StateLingering:
			m.handleLingerReadable(c, now)
		}
	}

	for _, c := range cgiReady {
		m.handleCGIReadable(c, now)
	}
}

// acceptOne drains every connection currently pending on listener index,
// since a single readiness notification can correspond to several queued
// clients under load.
func (m *Manager) acceptOne(index int, now time.Time) {
	if index < 0 || index >= len(m.listeners) {
		return
	}
	ln := m.listeners[index]

	for {
		nc, err := ln.Accept()
		if err != nil {
			return
		}

		c, perr := m.Pool.Acquire()
		if perr != nil {
			m.stats.rejected++
			_ = nc.Close()
			continue
		}

		fd, ferr := rawFd(nc)
		if ferr != nil {
			m.Pool.Release(c)
			_ = nc.Close()
			continue
		}

		c.Conn = nc
		c.Fd = fd
		c.RemoteAddr = nc.RemoteAddr().String()
		c.AcceptedAt = now
		c.ActiveAt = now
		c.State = StateReading

		if regErr := m.oracle.Add(fd, oracle.InterestRead, c); regErr != nil {
			m.Pool.Release(c)
			_ = nc.Close()
			continue
		}

		c.WakeupTimer = m.wheel.Create(now.Add(IdleTimeout), m.onIdleFire,
			timer.ClientData{Kind: timer.KindIdle, ConnID: c.Index}, 0, false)

		m.stats.accepted++
	}
}

// onIdleFire is the wheel callback for a connection's idle timer: if it is
// still in READING or SENDING (never advanced), it is dropped outright,
// matching the original's idle-connection reclaim.
func (m *Manager) onIdleFire(data timer.ClientData) {
	c := m.Pool.ByIndex(data.ConnID)
	if c == nil || c.State == StateFree {
		return
	}
	m.stats.timedOut++
	m.closeConn(c)
}

// closeConn tears a connection down unconditionally: cancels its timers,
// deregisters its fd, returns any bound cache mapping and throttle slot,
// and frees the pool slot. Safe to call from any non-FREE state.
func (m *Manager) closeConn(c *Conn) {
	if c.WakeupTimer != 0 {
		_ = m.wheel.Cancel(c.WakeupTimer)
	}
	if c.LingerTimer != 0 {
		_ = m.wheel.Cancel(c.LingerTimer)
	}
	if c.Cmd != nil && c.Cmd.Process != nil {
		_ = c.Cmd.Process.Kill()
	}
	m.reapCGI(c)

	if c.Throttle != nil {
		c.Throttle.Unbind()
	}

	if c.Mapped != nil {
		_ = m.cache.Unmap(c.Mapped, c.Request.Info, time.Now())
	}

	if c.Fd != 0 {
		_ = m.oracle.Del(c.Fd)
	}
	if c.Conn != nil {
		_ = c.Conn.Close()
	}

	m.stats.completed++
	m.Pool.Release(c)
}
