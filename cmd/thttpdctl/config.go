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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nabbar/thttpd-core/config"
	"github.com/nabbar/thttpd-core/connmgr"
	liberr "github.com/nabbar/thttpd-core/erro"
)

// loadConfig decodes a CoreConfig from file/flags/env through viper. CORE
// packages never see viper; they only ever receive the resulting struct.
func loadConfig(cmd *cobra.Command, cfgFile string) (config.CoreConfig, liberr.Error) {
	v := viper.New()
	v.SetEnvPrefix("THTTPD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := config.DefaultCoreConfig()
	v.SetDefault("debug", cfg.Debug)
	v.SetDefault("dir", cfg.DocumentRoot)
	v.SetDefault("cgipat", cfg.CGIPattern)
	v.SetDefault("cgilimit", cfg.CGILimit)
	v.SetDefault("charset", cfg.Charset)
	v.SetDefault("max_age", cfg.MaxAge)
	v.SetDefault("index_names", cfg.IndexNames)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		switch strings.ToLower(filepath.Ext(cfgFile)) {
		case ".yml", ".yaml":
			v.SetConfigType("yaml")
		case ".toml":
			v.SetConfigType("toml")
		default:
			v.SetConfigType("json")
		}

		if err := v.ReadInConfig(); err != nil {
			return cfg, ErrorConfigDecode.Error(err)
		}
	}

	// Bind only the scalar flags that share a name with a CoreConfig
	// mapstructure key; "listen" is a repeatable network:address:port
	// string the serve command parses on its own, not something viper's
	// generic decode can turn into []ServerConfig.
	for _, name := range []string{
		"dir", "chroot", "cgipat", "cgilimit", "throttles",
		"charset", "max_age", "index_names", "logfile", "debug",
	} {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			_ = v.BindPFlag(name, flag)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, ErrorConfigDecode.Error(err)
	}

	if cfg.ThrottleFile != "" {
		rules, terr := connmgr.ParseThrottleFile(cfg.ThrottleFile)
		if terr != nil {
			return cfg, ErrorThrottleFile.Error(terr)
		}
		cfg.Throttles = rules
	}

	// Listen is filled in by the caller from the "listen" flag, which
	// this decode step deliberately does not touch; Validate is the
	// caller's job once that merge has happened.
	return cfg, nil
}
