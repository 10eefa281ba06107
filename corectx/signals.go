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
	"os"
	"os/signal"
	"syscall"
)

// ListenSignals wires the §6 signal set to CoreContext's flags: SIGTERM
// and SIGINT request a graceful shutdown, SIGQUIT requests a drain,
// SIGHUP requests a deferred log reopen, and SIGUSR1 requests an
// immediate stats dump. Delivery itself is handled by the Go runtime
// (async-signal-safe by construction); the goroutine this starts only
// ever touches atomics and channel sends, never anything the original's
// "never call non-async-safe functions inline" rule would forbid a real
// signal handler from doing.
//
// Returns a stop function that cancels signal delivery; call it once
// Run has returned.
func (c *CoreContext) ListenSignals() (stop func()) {
	ch := make(chan os.Signal, 8)
	signal.Notify(ch,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGHUP,
		syscall.SIGUSR1,
	)

	c.sigStop = make(chan struct{})

	go func() {
		for {
			select {
			case sig := <-ch:
				switch sig {
				case syscall.SIGTERM, syscall.SIGINT:
					c.RequestShutdown()
				case syscall.SIGQUIT:
					c.RequestDrain()
				case syscall.SIGHUP:
					c.RequestLogReopen()
				case syscall.SIGUSR1:
					c.RequestStats()
				}
			case <-c.sigStop:
				signal.Stop(ch)
				return
			}
		}
	}()

	return func() {
		if c.sigStop != nil {
			close(c.sigStop)
		}
	}
}
