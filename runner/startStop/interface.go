/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

// Package startStop implements the start/stop/restart lifecycle contract
// used by every long-running component in the module (aggregators, hook
// writers, the core server loop): a pair of blocking functions is wrapped
// into an instance that can be started, stopped and restarted any number
// of times, tracking whether it is currently running, for how long, and
// the error (if any) its last run produced.
package startStop

import (
	"context"
	"time"

	libatm "github.com/nabbar/thttpd-core/atomic"
)

// StartStop is the lifecycle contract for a component whose work is driven
// by a blocking start function and torn down by a stop function.
type StartStop interface {
	// Start launches the start function in a new goroutine and returns
	// immediately. If an instance is already running, it is stopped first.
	// Start never blocks on the start function itself; any error it
	// returns is recorded and retrievable via ErrorsLast/ErrorsList.
	Start(ctx context.Context) error

	// Stop cancels the running instance's context and calls the stop
	// function once. It is idempotent: calling it when no instance is
	// running is a no-op. Any error from the stop function is recorded,
	// not returned.
	Stop(ctx context.Context) error

	// Restart stops the current instance, if any, then starts a new one.
	Restart(ctx context.Context) error

	// IsRunning reports whether an instance is currently running.
	IsRunning() bool

	// Uptime returns how long the current instance has been running, or
	// zero if no instance is running.
	Uptime() time.Duration

	// ErrorsLast returns the most recent error recorded by the current
	// (or just-finished) instance, or nil if none occurred.
	ErrorsLast() error

	// ErrorsList returns every error recorded by the current (or
	// just-finished) instance, oldest first.
	ErrorsList() []error
}

// New wraps start and stop into a StartStop instance. Either function may
// be nil: calling Start/Stop on a nil function records an error instead of
// panicking.
func New(start, stop func(ctx context.Context) error) StartStop {
	r := &runner{
		startFn: start,
		stopFn:  stop,
	}

	r.running = libatm.NewValue[bool]()
	r.started = libatm.NewValue[time.Time]()
	r.cancel = libatm.NewValue[context.CancelFunc]()

	return r
}
