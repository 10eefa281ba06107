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
	"strconv"
	"syscall"
	"time"

	"github.com/nabbar/thttpd-core/cgi"
	"github.com/nabbar/thttpd-core/config"
	liberr "github.com/nabbar/thttpd-core/erro"
	"github.com/nabbar/thttpd-core/filecache"
	"github.com/nabbar/thttpd-core/httpcore"
	"github.com/nabbar/thttpd-core/logger"
	libntp "github.com/nabbar/thttpd-core/network/protocol"
	"github.com/nabbar/thttpd-core/oracle"
	"github.com/nabbar/thttpd-core/timer"
)

// IdleTimeout is how long a connection may sit in READING or SENDING
// without any byte movement before it is dropped, matching the original's
// fixed idle-connection reclaim window.
const IdleTimeout = 60 * time.Second

// LingerTimeout bounds how long a connection is kept open in LINGERING,
// draining and discarding anything the client still sends, after its
// response has been fully written.
const LingerTimeout = 5 * time.Second

// Manager bundles the connection pool with every subsystem the state
// machine drives: readiness (Oracle), scheduling (Wheel), the mapped-file
// cache, the CGI supervisor, the throttle table and the logger. One
// Manager belongs to one main loop.
type Manager struct {
	Pool  *Pool
	Throttles *Table

	oracle *oracle.Oracle
	wheel  *timer.Wheel
	cache  *filecache.Cache
	cgi    *cgi.Supervisor
	auth   *httpcore.AuthCache

	cfg config.CoreConfig
	log logger.Logger

	listeners   []net.Listener
	listenerFds []int

	stats managerStats
}

// Config bundles the wiring Manager needs to start, keeping NewManager's
// signature from growing every time another subsystem joins it.
type Config struct {
	Core      config.CoreConfig
	Capacity  int
	CGILimit  int
	OracleCap int
	Logger    logger.Logger
	Cache     *filecache.Cache
}

// NewManager builds a Manager ready to accept connections, but not yet
// listening on anything.
func NewManager(c Config) (*Manager, liberr.Error) {
	if c.Capacity <= 0 {
		c.Capacity = 1024
	}
	if c.OracleCap <= 0 {
		c.OracleCap = c.Capacity + len(c.Core.Listen)
	}

	o, err := oracle.New(c.OracleCap)
	if err != nil {
		return nil, err
	}

	cache := c.Cache
	if cache == nil {
		cache = filecache.New(filecache.Config{HighWaterBytes: c.Core.CacheBudget})
	}

	m := &Manager{
		Pool:      NewPool(c.Capacity),
		Throttles: NewTable(c.Core.Throttles),
		oracle:    o,
		wheel:     timer.New(),
		cache:     cache,
		cgi:       cgi.NewSupervisor(c.CGILimit),
		auth:      httpcore.NewAuthCache(),
		cfg:       c.Core,
		log:       c.Logger,
	}

	return m, nil
}

// Wheel exposes the timer wheel so corectx can compute the main loop's
// next poll deadline and run due timers.
func (m *Manager) Wheel() *timer.Wheel {
	return m.wheel
}

// Oracle exposes the readiness oracle so corectx can Wait on it.
func (m *Manager) Oracle() *oracle.Oracle {
	return m.oracle
}

// Cache exposes the mapped-file cache, e.g. for a periodic Cleanup call
// from corectx's occasional timer.
func (m *Manager) Cache() *filecache.Cache {
	return m.cache
}

// CGI exposes the CGI supervisor, e.g. for corectx's SIGCHLD-driven Reap.
func (m *Manager) CGI() *cgi.Supervisor {
	return m.cgi
}

// Listen opens one listener per cfg.Listen entry and registers each with
// the oracle for read-readiness (incoming connections), tagged with a
// negative, listener-identifying index so Dispatch can tell a new
// connection apart from ready application traffic.
func (m *Manager) Listen() liberr.Error {
	for i, sc := range m.cfg.Listen {
		if lerr := sc.Validate(); lerr != nil {
			return lerr
		}

		addr := sc.Address
		if sc.Network != libntp.NetworkUnix && sc.Network != libntp.NetworkUnixGram {
			addr = net.JoinHostPort(sc.Address, strconv.Itoa(int(sc.Port)))
		}

		ln, err := net.Listen(sc.Network.String(), addr)
		if err != nil {
			return ErrorRawFd.Error(err)
		}

		sconn, ok := ln.(syscall.Conn)
		if !ok {
			_ = ln.Close()
			return ErrorRawFd.Error()
		}

		rc, rcErr := sconn.SyscallConn()
		if rcErr != nil {
			_ = ln.Close()
			return ErrorRawFd.Error(rcErr)
		}

		var fd int
		if ctrlErr := rc.Control(func(f uintptr) { fd = int(f) }); ctrlErr != nil {
			_ = ln.Close()
			return ErrorRawFd.Error(ctrlErr)
		}

		m.listeners = append(m.listeners, ln)
		m.listenerFds = append(m.listenerFds, fd)

		if regErr := m.oracle.Add(fd, oracle.InterestRead, listenerTag(i)); regErr != nil {
			return regErr
		}
	}

	return nil
}

// listenerTag is the Iter tag used for a listening socket, distinguished
// from a connection's tag (a *Conn) by its dynamic type.
type listenerTag int

// Drain stops accepting new connections, closing every listener and
// deregistering it from the oracle, but leaves already-established
// connections running to completion. Matches the "drain" signal of §6:
// stop accepting, exit when idle. Idempotent.
func (m *Manager) Drain() {
	for _, fd := range m.listenerFds {
		_ = m.oracle.Del(fd)
	}
	for _, ln := range m.listeners {
		_ = ln.Close()
	}
	m.listeners = nil
	m.listenerFds = nil
}

// Idle reports whether every pool slot is free, the point at which a
// pending shutdown or drain may actually stop the main loop.
func (m *Manager) Idle() bool {
	return m.Pool.Active() == 0
}

// Close shuts every listener and active connection down. Best-effort: the
// process is on its way out by the time this runs.
func (m *Manager) Close() {
	m.Drain()
	for i := 0; i < m.Pool.Cap(); i++ {
		c := m.Pool.ByIndex(i)
		if c.State != StateFree {
			m.closeConn(c)
		}
	}
	m.cache.Destroy()
}

// managerStats are the plain counters RegisterMetrics exposes as
// Prometheus gauges/counters.
type managerStats struct {
	accepted   uint64
	completed  uint64
	rejected   uint64
	cgiStarted uint64
	timedOut   uint64
}
