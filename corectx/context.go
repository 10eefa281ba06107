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

package corectx

import (
	"sync/atomic"
	"time"

	"github.com/nabbar/thttpd-core/connmgr"
	liberr "github.com/nabbar/thttpd-core/erro"
	"github.com/nabbar/thttpd-core/logger"
)

// maxPollMs bounds one oracle.Wait call even when the timer wheel is
// empty, so a signal-set flag (shutdown, drain, reopen, stats) is never
// stuck behind an indefinite wait with nothing else to wake it.
const maxPollMs = 1000

// CoreContext bundles everything the main loop of §5 needs that isn't
// already owned by connmgr.Manager: the volatile signal-set flags, the
// optional watchdog, and the two operator hooks (log reopen, stats dump)
// a caller may wire in. One CoreContext drives one Manager, on one
// goroutine, for the life of the process.
type CoreContext struct {
	mgr *connmgr.Manager
	log logger.Logger

	watchdog *Watchdog

	shutdown  int32
	draining  int32
	reopenLog int32
	statsNow  int32

	onLogReopen func() error
	onStats     func()

	sigStop chan struct{}
}

// New builds a CoreContext around an already-constructed, already-
// listening Manager. Call ListenSignals to wire OS signal delivery, then
// Run to enter the main loop.
func New(mgr *connmgr.Manager, log logger.Logger) *CoreContext {
	return &CoreContext{mgr: mgr, log: log}
}

// SetLogReopen registers the callback Run invokes when the reopen-log
// flag is serviced (§5 step 1). Optional: a nil callback makes the flag
// a no-op, just cleared.
func (c *CoreContext) SetLogReopen(fn func() error) {
	c.onLogReopen = fn
}

// SetStatsHandler registers the callback invoked when the "stats now"
// signal (§6) has been received. Optional.
func (c *CoreContext) SetStatsHandler(fn func()) {
	c.onStats = fn
}

// SetWatchdog arms a deadlock guard: if Tick isn't called again within
// interval of the previous tick, abort is invoked from the watchdog's own
// goroutine. Run calls Tick once per iteration; a main loop wedged inside
// a single iteration (a misbehaving callback looping forever) will starve
// Tick and trip the guard.
func (c *CoreContext) SetWatchdog(interval time.Duration, abort func()) {
	c.watchdog = NewWatchdog(interval)
	c.watchdog.Start(abort)
}

// RequestShutdown sets the termination flag: §5's "caught termination
// signal drains active connections before stopping." Idempotent.
func (c *CoreContext) RequestShutdown() {
	atomic.StoreInt32(&c.shutdown, 1)
}

// RequestDrain sets the drain flag: §6's "stop accepting, exit when
// idle." Idempotent.
func (c *CoreContext) RequestDrain() {
	atomic.StoreInt32(&c.draining, 1)
}

// RequestLogReopen sets the deferred log-reopen flag serviced at the top
// of the next iteration.
func (c *CoreContext) RequestLogReopen() {
	atomic.StoreInt32(&c.reopenLog, 1)
}

// RequestStats sets the "stats now" flag serviced at the top of the next
// iteration.
func (c *CoreContext) RequestStats() {
	atomic.StoreInt32(&c.statsNow, 1)
}

// Run enters the main loop and returns once a shutdown or drain has been
// requested and every connection has finished. It implements §5's eight
// numbered steps in order, every iteration.
func (c *CoreContext) Run() liberr.Error {
	for {
		// 1. service the log-reopen flag if set.
		if atomic.CompareAndSwapInt32(&c.reopenLog, 1, 0) {
			c.serviceLogReopen()
		}

		// 1b. service "stats now" if set (§6; not in the original's
		// numbered loop, but the same "flag set by a signal, serviced at
		// the top of an iteration" shape).
		if atomic.CompareAndSwapInt32(&c.statsNow, 1, 0) && c.onStats != nil {
			c.onStats()
		}

		// 2-3. compute next timer deadline, wait on the oracle.
		now := time.Now()
		timeoutMs := c.mgr.Wheel().NextTimeoutMs(now)
		if timeoutMs < 0 || timeoutMs > maxPollMs {
			timeoutMs = maxPollMs
		}

		n, werr := c.mgr.Oracle().Wait(int(timeoutMs))
		if werr != nil {
			// 4. any non-EINTR error (Wait already absorbed EINTR
			// internally): terminate.
			if c.log != nil {
				c.log.Error("corectx: oracle wait failed", werr)
			}
			return ErrorWaitFailed.Error(werr)
		}

		now = time.Now()

		// 5-6. listener-priority accept, then dispatch ready connections.
		if n > 0 {
			c.mgr.Pump(now)
		}

		// 7. run expired timers (idle reclaim, linger, CGI escalation,
		// occasional cache cleanup, throttle redistribution, stats).
		c.mgr.Wheel().Run(now)

		if c.watchdog != nil {
			c.watchdog.Tick()
		}

		// Service drain/shutdown requests: stop accepting exactly once,
		// the moment either flag is seen.
		shuttingDown := atomic.LoadInt32(&c.shutdown) == 1
		draining := atomic.LoadInt32(&c.draining) == 1
		if shuttingDown || draining {
			c.mgr.Drain()
		}

		// 8. if shutdown-flag pending and there are no active
		// connections, stop.
		if (shuttingDown || draining) && c.mgr.Idle() {
			return nil
		}
	}
}

func (c *CoreContext) serviceLogReopen() {
	if c.onLogReopen == nil {
		return
	}
	if err := c.onLogReopen(); err != nil && c.log != nil {
		c.log.Warning("corectx: log reopen failed", err)
	}
}
