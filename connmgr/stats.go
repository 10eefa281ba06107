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
	"github.com/prometheus/client_golang/prometheus"
)

// managerCollector adapts a Manager's live counters and gauges to the
// Prometheus collector interface without requiring the main loop to touch
// the registry on every Pump call: values are read straight off the
// Manager (and its Pool/Table/filecache.Cache/cgi.Supervisor) at scrape
// time, the same way a one-shot GaugeFunc would, but bundled as a single
// collector so RegisterMetrics has one thing to register.
type managerCollector struct {
	m *Manager

	descAccepted   *prometheus.Desc
	descCompleted  *prometheus.Desc
	descRejected   *prometheus.Desc
	descTimedOut   *prometheus.Desc
	descCGIStarted *prometheus.Desc
	descActive     *prometheus.Desc
	descCapacity   *prometheus.Desc
	descCGIRunning *prometheus.Desc
	descCacheBytes *prometheus.Desc
	descCacheFiles *prometheus.Desc
}

// RegisterMetrics exposes Manager's counters under the thttpd_core
// namespace. Call once, after NewManager and before the first Pump.
func (m *Manager) RegisterMetrics(reg prometheus.Registerer) error {
	c := &managerCollector{
		m: m,
		descAccepted: prometheus.NewDesc("thttpd_core_connections_accepted_total",
			"Connections accepted since startup.", nil, nil),
		descCompleted: prometheus.NewDesc("thttpd_core_connections_completed_total",
			"Connections torn down after completing their lifecycle.", nil, nil),
		descRejected: prometheus.NewDesc("thttpd_core_connections_rejected_total",
			"Connections refused because the pool was exhausted.", nil, nil),
		descTimedOut: prometheus.NewDesc("thttpd_core_connections_timed_out_total",
			"Connections dropped by the idle timer.", nil, nil),
		descCGIStarted: prometheus.NewDesc("thttpd_core_cgi_started_total",
			"CGI child processes started.", nil, nil),
		descActive: prometheus.NewDesc("thttpd_core_connections_active",
			"Connections currently claimed from the pool.", nil, nil),
		descCapacity: prometheus.NewDesc("thttpd_core_connections_capacity",
			"Fixed pool capacity.", nil, nil),
		descCGIRunning: prometheus.NewDesc("thttpd_core_cgi_running",
			"CGI children currently running.", nil, nil),
		descCacheBytes: prometheus.NewDesc("thttpd_core_cache_bytes",
			"Bytes currently mapped by the file cache.", nil, nil),
		descCacheFiles: prometheus.NewDesc("thttpd_core_cache_files",
			"Files currently mapped by the file cache.", nil, nil),
	}
	return reg.Register(c)
}

func (c *managerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.descAccepted
	ch <- c.descCompleted
	ch <- c.descRejected
	ch <- c.descTimedOut
	ch <- c.descCGIStarted
	ch <- c.descActive
	ch <- c.descCapacity
	ch <- c.descCGIRunning
	ch <- c.descCacheBytes
	ch <- c.descCacheFiles
}

func (c *managerCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.m.stats
	cacheStats := c.m.cache.Stats()

	ch <- prometheus.MustNewConstMetric(c.descAccepted, prometheus.CounterValue, float64(st.accepted))
	ch <- prometheus.MustNewConstMetric(c.descCompleted, prometheus.CounterValue, float64(st.completed))
	ch <- prometheus.MustNewConstMetric(c.descRejected, prometheus.CounterValue, float64(st.rejected))
	ch <- prometheus.MustNewConstMetric(c.descTimedOut, prometheus.CounterValue, float64(st.timedOut))
	ch <- prometheus.MustNewConstMetric(c.descCGIStarted, prometheus.CounterValue, float64(st.cgiStarted))
	ch <- prometheus.MustNewConstMetric(c.descActive, prometheus.GaugeValue, float64(c.m.Pool.Active()))
	ch <- prometheus.MustNewConstMetric(c.descCapacity, prometheus.GaugeValue, float64(c.m.Pool.Cap()))
	ch <- prometheus.MustNewConstMetric(c.descCGIRunning, prometheus.GaugeValue, float64(c.m.cgi.Count()))
	ch <- prometheus.MustNewConstMetric(c.descCacheBytes, prometheus.GaugeValue, float64(cacheStats.MappedBytes))
	ch <- prometheus.MustNewConstMetric(c.descCacheFiles, prometheus.GaugeValue, float64(cacheStats.Active))
}
