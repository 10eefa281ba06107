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

package cgi

import (
	"os"
	"time"

	"github.com/nabbar/thttpd-core/timer"
)

// KillGrace is how long a child gets between SIGINT and SIGKILL once its
// time limit has expired.
const KillGrace = 5 * time.Second

// ScheduleEscalation arranges for pid to receive SIGINT after timelimit,
// and SIGKILL KillGrace later if it is still running. Both steps run as
// ordinary timer-wheel callbacks on the main loop, never a dedicated
// goroutine. Call the returned cancel func as soon as the child is reaped
// so a stale pid never gets signaled after exit (and, worse, after reuse).
func ScheduleEscalation(wheel *timer.Wheel, pid int, timelimit time.Duration) (cancel func()) {
	var killHandle timer.Handle

	sigint := func(data timer.ClientData) {
		proc, err := os.FindProcess(data.Pid)
		if err != nil {
			return
		}
		_ = proc.Signal(os.Interrupt)

		killHandle = wheel.Create(time.Now().Add(KillGrace), func(d timer.ClientData) {
			if p, findErr := os.FindProcess(d.Pid); findErr == nil {
				_ = p.Kill()
			}
		}, data, 0, false)
	}

	intHandle := wheel.Create(time.Now().Add(timelimit), sigint,
		timer.ClientData{Kind: timer.KindCgiKill, Pid: pid}, 0, false)

	return func() {
		_ = wheel.Cancel(intHandle)
		if killHandle != 0 {
			_ = wheel.Cancel(killHandle)
		}
	}
}
