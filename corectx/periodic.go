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
	"time"

	"github.com/nabbar/thttpd-core/timer"
)

// OccasionalInterval is how often the mapped-file cache runs its
// adaptive-aging cleanup pass, matching the original's OCCASIONAL_TIME.
const OccasionalInterval = 120 * time.Second

// ThrottleInterval is how often bound throttle rates are recomputed,
// matching the original's THROTTLE_TIME.
const ThrottleInterval = 1 * time.Second

// ArmPeriodicTasks schedules the wheel-driven housekeeping every Manager
// needs but nothing in the request path triggers on its own: cache
// aging and throttle redistribution always; a periodic stats report only
// if statsInterval is positive (zero disables it, leaving SIGUSR1's
// one-shot dump as the only way to see counters).
func (c *CoreContext) ArmPeriodicTasks(statsInterval time.Duration) {
	now := time.Now()
	wheel := c.mgr.Wheel()

	wheel.Create(now.Add(OccasionalInterval), c.onOccasional,
		timer.ClientData{Kind: timer.KindOccasional}, OccasionalInterval, true)

	wheel.Create(now.Add(ThrottleInterval), c.onUpdateThrottles,
		timer.ClientData{Kind: timer.KindUpdateThrottles}, ThrottleInterval, true)

	if statsInterval > 0 {
		wheel.Create(now.Add(statsInterval), c.onShowStats,
			timer.ClientData{Kind: timer.KindShowStats}, statsInterval, true)
	}
}

func (c *CoreContext) onOccasional(_ timer.ClientData) {
	c.mgr.Cache().Cleanup(time.Now())
}

func (c *CoreContext) onUpdateThrottles(_ timer.ClientData) {
	c.mgr.Throttles.Redistribute()
}

func (c *CoreContext) onShowStats(_ timer.ClientData) {
	if c.onStats != nil {
		c.onStats()
	}
}
