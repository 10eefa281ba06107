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

package main

import (
	"bufio"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// statKeys are the thttpd_core_* gauges worth a human a glance; anything
// else scraped off the endpoint is still counted but not labeled.
var statKeys = []string{
	"thttpd_core_connections_active",
	"thttpd_core_connections_capacity",
	"thttpd_core_connections_accepted_total",
	"thttpd_core_connections_completed_total",
	"thttpd_core_connections_rejected_total",
	"thttpd_core_connections_timed_out_total",
	"thttpd_core_cgi_started_total",
	"thttpd_core_cgi_running",
	"thttpd_core_cache_bytes",
	"thttpd_core_cache_files",
}

func newStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Fetch and print a running server's counters",
		RunE:  runStats,
	}

	cmd.Flags().String("metrics-addr", "http://127.0.0.1:9090/metrics", "URL of the running server's metrics endpoint")
	cmd.Flags().Duration("timeout", 3*time.Second, "HTTP timeout for the scrape")

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("metrics-addr")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	values, err := scrapeGauges(addr, timeout)
	if err != nil {
		return ErrorStatsUnreachable.Error(err)
	}

	bold := color.New(color.Bold)
	label := color.New(color.FgCyan)
	value := color.New(color.FgGreen)

	bold.Println("thttpd-core stats")
	for _, k := range statKeys {
		v, ok := values[k]
		if !ok {
			continue
		}
		label.Printf("  %-42s", strings.TrimPrefix(k, "thttpd_core_"))
		value.Println(v)
	}

	return nil
}

// scrapeGauges does just enough of the Prometheus text exposition format
// to pull out "metric value" pairs; it is not a general parser and does
// not need to be, since this only ever reads our own /metrics handler.
func scrapeGauges(addr string, timeout time.Duration) (map[string]string, error) {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(addr)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("thttpdctl: metrics endpoint returned %s", resp.Status)
	}

	out := make(map[string]string)
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}

		name := fields[0]
		if idx := strings.IndexByte(name, '{'); idx >= 0 {
			name = name[:idx]
		}

		if _, err := strconv.ParseFloat(fields[1], 64); err != nil {
			continue
		}

		out[name] = fields[1]
	}

	return out, scanner.Err()
}
