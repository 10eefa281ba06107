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

package startStop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	libatm "github.com/nabbar/thttpd-core/atomic"
	libsrv "github.com/nabbar/thttpd-core/runner"
)

var (
	errInvalidStart = errors.New("invalid start function: function is undefined")
	errInvalidStop  = errors.New("invalid stop function: function is undefined")
)

type runner struct {
	startFn func(ctx context.Context) error
	stopFn  func(ctx context.Context) error

	running libatm.Value[bool]
	started libatm.Value[time.Time]
	cancel  libatm.Value[context.CancelFunc]

	mu   sync.Mutex
	errs []error
}

func (r *runner) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	r.stopInstance(ctx, false)
	r.clearErrors()

	cld, cancel := context.WithCancel(ctx)
	r.cancel.Store(cancel)
	r.started.Store(time.Now())
	r.running.Store(true)

	go r.run(cld)

	return nil
}

func (r *runner) Stop(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	r.stopInstance(ctx, true)
	return nil
}

func (r *runner) Restart(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	_ = r.Stop(ctx)
	return r.Start(ctx)
}

func (r *runner) IsRunning() bool {
	return r.running.Load()
}

func (r *runner) Uptime() time.Duration {
	t := r.started.Load()
	if t.IsZero() {
		return 0
	}
	return time.Since(t)
}

func (r *runner) ErrorsLast() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[len(r.errs)-1]
}

func (r *runner) ErrorsList() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

// stopInstance cancels the in-flight instance, if any, and calls the stop
// function once. recordErr controls whether a nil stop function is
// reported as an error: callers invoked from Start (stopping the previous
// instance to make room for a new one) stay silent, while an explicit
// Stop call surfaces it.
func (r *runner) stopInstance(ctx context.Context, recordErr bool) {
	if !r.running.CompareAndSwap(true, false) {
		return
	}

	if cancel := r.cancel.Load(); cancel != nil {
		cancel()
	}

	switch fn := r.stopFn; {
	case fn == nil:
		if recordErr {
			r.appendError(errInvalidStop)
		}
	default:
		if err := fn(ctx); err != nil {
			r.appendError(err)
		}
	}

	r.started.Store(time.Time{})
}

func (r *runner) run(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			libsrv.RecoveryCaller("golib/runner/startStop/run", rec)
			r.appendError(fmt.Errorf("panic in start function: %v", rec))
		}
		r.running.Store(false)
		r.started.Store(time.Time{})
	}()

	fn := r.startFn
	if fn == nil {
		r.appendError(errInvalidStart)
		return
	}

	if err := fn(ctx); err != nil {
		r.appendError(err)
	}
}

func (r *runner) appendError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *runner) clearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = nil
}
