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

package filecache

import "github.com/prometheus/client_golang/prometheus"

// metrics are the counters a "stats now" signal dumps through corectx.
// They are registered lazily so a process that never asks for stats never
// pays for it, and so tests can build more than one Cache without tripping
// prometheus's duplicate-registration panic.
type metrics struct {
	active      prometheus.Gauge
	free        prometheus.Gauge
	mappedBytes prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thttpd_filecache_active_entries",
			Help: "Number of file mappings currently held by the cache.",
		}),
		free: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thttpd_filecache_free_pool_size",
			Help: "Number of pooled MapEntry shells awaiting reuse.",
		}),
		mappedBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "thttpd_filecache_mapped_bytes",
			Help: "Aggregate size of all currently mapped files.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.active, m.free, m.mappedBytes)
	}

	return m
}

// Observe publishes a Stats snapshot into reg's registered gauges.
func (m *metrics) Observe(s Stats) {
	if m == nil {
		return
	}
	m.active.Set(float64(s.Active))
	m.free.Set(float64(s.Free))
	m.mappedBytes.Set(float64(s.MappedBytes))
}

// RegisterMetrics attaches this cache's gauges to reg and returns a
// function that refreshes them from the cache's current Stats; the caller
// invokes it on the "stats now" signal.
func (c *Cache) RegisterMetrics(reg prometheus.Registerer) func() {
	m := newMetrics(reg)
	return func() {
		m.Observe(c.Stats())
	}
}
