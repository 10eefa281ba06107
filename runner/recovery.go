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

// Package runner collects the small set of helpers shared by every
// background worker in the module: panic recovery for goroutines that must
// never take the process down, and the start/stop lifecycle contract
// implemented by runner/startStop.
package runner

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"
)

// RecoveryCaller logs a recovered panic without re-raising it. It is meant
// to be called from a deferred recover() at the top of any goroutine a
// component spawns, so a single misbehaving worker cannot crash the whole
// process.
//
// caller identifies the function/goroutine that panicked, recovered is the
// value returned by recover() (nil means no panic occurred, in which case
// RecoveryCaller is a no-op), and extra carries optional context strings
// (e.g. the resource being processed) appended to the log line.
func RecoveryCaller(caller string, recovered any, extra ...string) {
	if recovered == nil {
		return
	}

	msg := fmt.Sprintf("[%s] recovered panic in %q: %v", time.Now().Format(time.RFC3339), caller, recovered)

	if len(extra) > 0 {
		msg += " (" + strings.Join(extra, ", ") + ")"
	}

	_, _ = fmt.Fprintln(os.Stderr, msg)
	_, _ = fmt.Fprintln(os.Stderr, string(debug.Stack()))
}
