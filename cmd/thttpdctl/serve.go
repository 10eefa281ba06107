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
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/nabbar/thttpd-core/config"
	"github.com/nabbar/thttpd-core/connmgr"
	"github.com/nabbar/thttpd-core/corectx"
	liblog "github.com/nabbar/thttpd-core/logger"
	logcfg "github.com/nabbar/thttpd-core/logger/config"
	loglvl "github.com/nabbar/thttpd-core/logger/level"
	libntp "github.com/nabbar/thttpd-core/network/protocol"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the server and run until a termination signal is received",
		RunE:  runServe,
	}

	f := cmd.Flags()
	f.StringSlice("listen", []string{"tcp:0.0.0.0:8080"}, "listener as network:address:port, repeatable")
	f.String("dir", ".", "document root")
	f.Bool("chroot", false, "chroot into the document root before serving")
	f.String("cgipat", "", "glob pattern of paths executed as CGI")
	f.Int("cgilimit", 0, "maximum concurrent CGI processes, 0 for unlimited")
	f.String("throttles", "", "path to a throttle rule file")
	f.String("charset", "utf-8", "default charset added to text content types")
	f.Int("max_age", -1, "Cache-Control max-age in seconds, negative to omit")
	f.StringSlice("index_names", []string{"index.html", "index.htm"}, "directory index file names, in order")
	f.String("logfile", "", "path to the access/error log file, empty for stdout only")
	f.Bool("debug", false, "enable debug-level logging")
	f.String("metrics-addr", ":9090", "address the Prometheus /metrics endpoint listens on")
	f.Duration("watchdog", 10*time.Second, "abort the process if the main loop misses this many seconds of ticks")
	f.Duration("stats-interval", 0, "how often to log a stats snapshot, 0 to disable the periodic report")
	f.Int("capacity", 1024, "maximum concurrent connections")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, cerr := loadConfig(cmd, cfgFile)
	if cerr != nil {
		return cerr
	}

	listenFlag, _ := cmd.Flags().GetStringSlice("listen")
	if len(listenFlag) > 0 {
		listeners, lerr := parseListeners(listenFlag)
		if lerr != nil {
			return lerr
		}
		cfg.Listen = listeners
	}

	if verr := cfg.Validate(); verr != nil {
		return ErrorConfigValidate.Error(verr)
	}

	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	watchdogInterval, _ := cmd.Flags().GetDuration("watchdog")
	statsInterval, _ := cmd.Flags().GetDuration("stats-interval")
	capacity, _ := cmd.Flags().GetInt("capacity")

	log := liblog.New(context.Background())
	defer func() { _ = log.Close() }()

	if cfg.Debug {
		log.SetLevel(loglvl.DebugLevel)
	} else {
		log.SetLevel(loglvl.InfoLevel)
	}

	if cfg.LogFile != "" {
		if err := log.SetOptions(&logcfg.Options{
			LogFile: []logcfg.OptionsFile{
				{
					Filepath:   cfg.LogFile,
					Create:     true,
					CreatePath: true,
				},
			},
		}); err != nil {
			return err
		}
	}

	mgr, merr := connmgr.NewManager(connmgr.Config{
		Core:     cfg,
		Capacity: capacity,
		CGILimit: cfg.CGILimit,
		Logger:   log,
	})
	if merr != nil {
		return merr
	}

	reg := prometheus.NewRegistry()
	if err := mgr.RegisterMetrics(reg); err != nil {
		return err
	}

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warning("thttpdctl: metrics listener stopped", err)
			}
		}()
	}

	if lerr := mgr.Listen(); lerr != nil {
		return lerr
	}
	defer mgr.Close()

	cc := corectx.New(mgr, log)
	cc.ArmPeriodicTasks(statsInterval)
	cc.SetStatsHandler(func() {
		log.Info("stats snapshot: active=%d capacity=%d", nil, mgr.Pool.Active(), mgr.Pool.Cap())
	})
	cc.SetLogReopen(func() error {
		return log.SetOptions(log.GetOptions())
	})
	if watchdogInterval > 0 {
		cc.SetWatchdog(watchdogInterval, func() {
			log.Fatal("thttpdctl: main loop watchdog stuck, aborting", nil)
		})
	}

	stop := cc.ListenSignals()
	defer stop()

	log.Info("thttpd-core serving on %v, document root %s", nil, listenFlag, cfg.DocumentRoot)

	return cc.Run()
}

// parseListeners turns repeated "network:address:port" flag values into
// ServerConfig entries. A unix socket path may itself contain colons, so
// only the first two separators are significant; the remainder is the
// address.
func parseListeners(raw []string) ([]config.ServerConfig, error) {
	out := make([]config.ServerConfig, 0, len(raw))

	for _, r := range raw {
		parts := strings.SplitN(r, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("thttpdctl: malformed --listen value %q, want network:address:port", r)
		}

		proto := libntp.Parse(parts[0])
		port, err := strconv.ParseUint(parts[2], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("thttpdctl: malformed port in --listen value %q: %w", r, err)
		}

		out = append(out, config.ServerConfig{
			Network: proto,
			Address: parts[1],
			Port:    uint16(port),
		})
	}

	return out, nil
}
