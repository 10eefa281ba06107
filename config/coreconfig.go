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

package config

import (
	"fmt"

	liberr "github.com/nabbar/thttpd-core/erro"
	libntp "github.com/nabbar/thttpd-core/network/protocol"
	libsze "github.com/nabbar/thttpd-core/size"
)

// ThrottleRule mirrors one line of a throttle file: a glob pattern matched
// against the request path, a ceiling rate and an optional floor rate, both
// in bytes per second. Min is zero when the line carries only a max.
type ThrottleRule struct {
	Pattern string `mapstructure:"pattern" json:"pattern" yaml:"pattern" toml:"pattern"`
	Min     libsze.Size `mapstructure:"min" json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max     libsze.Size `mapstructure:"max" json:"max" yaml:"max" toml:"max"`
}

// Validate reports whether the rule has a usable pattern and a max rate that
// is not dominated by its own min rate.
func (t ThrottleRule) Validate() liberr.Error {
	e := ErrorValidatorError.Error()

	if len(t.Pattern) < 1 {
		e.Add(ErrorThrottlePattern.Error())
	}

	if t.Max == 0 || (t.Min > 0 && t.Min >= t.Max) {
		e.Add(ErrorThrottleRate.Error())
	}

	if !e.HasParent() {
		return nil
	}

	return e
}

// ServerConfig describes one listener: the address family and socket to
// bind, and the document tree it serves. Several listeners share a
// CoreConfig so one process can answer on more than one interface.
type ServerConfig struct {
	Network libntp.NetworkProtocol `mapstructure:"network" json:"network" yaml:"network" toml:"network"`
	Address string                 `mapstructure:"address" json:"address" yaml:"address" toml:"address"`
	Port    uint16                 `mapstructure:"port" json:"port" yaml:"port" toml:"port"`
}

// Validate reports whether the listener has a usable network and port.
func (s ServerConfig) Validate() liberr.Error {
	e := ErrorValidatorError.Error()

	if s.Network.String() == "" {
		e.Add(fmt.Errorf("config field 'Network' is not a recognized protocol"))
	}

	if s.Network != libntp.NetworkUnix && s.Network != libntp.NetworkUnixGram && s.Port == 0 {
		e.Add(ErrorListenEmpty.Error())
	}

	if !e.HasParent() {
		return nil
	}

	return e
}

// CoreConfig holds the whole server's runtime policy: where it listens,
// what it serves, and how it decides to serve it. A cmd-level loader
// decodes this from flags/file/env through viper and hands it down
// already filled in; CORE packages never read configuration sources
// themselves.
type CoreConfig struct {
	Debug bool `mapstructure:"debug" json:"debug" yaml:"debug" toml:"debug"`

	Listen []ServerConfig `mapstructure:"listen" json:"listen" yaml:"listen" toml:"listen"`

	Host string `mapstructure:"host" json:"host,omitempty" yaml:"host,omitempty" toml:"host,omitempty"`

	DocumentRoot string `mapstructure:"dir" json:"dir" yaml:"dir" toml:"dir"`
	Chroot       bool   `mapstructure:"chroot" json:"chroot" yaml:"chroot" toml:"chroot"`
	DataDir      string `mapstructure:"data_dir" json:"data_dir,omitempty" yaml:"data_dir,omitempty" toml:"data_dir,omitempty"`

	SymlinkCheck bool   `mapstructure:"symlinkcheck" json:"symlinkcheck" yaml:"symlinkcheck" toml:"symlinkcheck"`
	User         string `mapstructure:"user" json:"user,omitempty" yaml:"user,omitempty" toml:"user,omitempty"`

	CGIPattern string `mapstructure:"cgipat" json:"cgipat,omitempty" yaml:"cgipat,omitempty" toml:"cgipat,omitempty"`
	CGILimit   int    `mapstructure:"cgilimit" json:"cgilimit,omitempty" yaml:"cgilimit,omitempty" toml:"cgilimit,omitempty"`

	URLPattern       string `mapstructure:"urlpat" json:"urlpat,omitempty" yaml:"urlpat,omitempty" toml:"urlpat,omitempty"`
	NoEmptyReferrers bool   `mapstructure:"noemptyreferrers" json:"noemptyreferrers" yaml:"noemptyreferrers" toml:"noemptyreferrers"`
	LocalPattern     string `mapstructure:"localpat" json:"localpat,omitempty" yaml:"localpat,omitempty" toml:"localpat,omitempty"`

	ThrottleFile string         `mapstructure:"throttles" json:"throttles,omitempty" yaml:"throttles,omitempty" toml:"throttles,omitempty"`
	Throttles    []ThrottleRule `mapstructure:"-" json:"-" yaml:"-" toml:"-"`

	LogFile string `mapstructure:"logfile" json:"logfile,omitempty" yaml:"logfile,omitempty" toml:"logfile,omitempty"`

	VHost        bool `mapstructure:"vhost" json:"vhost" yaml:"vhost" toml:"vhost"`
	GlobalPasswd bool `mapstructure:"globalpasswd" json:"globalpasswd" yaml:"globalpasswd" toml:"globalpasswd"`

	PidFile string `mapstructure:"pidfile" json:"pidfile,omitempty" yaml:"pidfile,omitempty" toml:"pidfile,omitempty"`

	Charset string      `mapstructure:"charset" json:"charset,omitempty" yaml:"charset,omitempty" toml:"charset,omitempty"`
	P3P     string      `mapstructure:"p3p" json:"p3p,omitempty" yaml:"p3p,omitempty" toml:"p3p,omitempty"`
	MaxAge  int          `mapstructure:"max_age" json:"max_age,omitempty" yaml:"max_age,omitempty" toml:"max_age,omitempty"`

	IndexNames   []string `mapstructure:"index_names" json:"index_names,omitempty" yaml:"index_names,omitempty" toml:"index_names,omitempty"`
	ErrorPageDir string   `mapstructure:"error_dir" json:"error_dir,omitempty" yaml:"error_dir,omitempty" toml:"error_dir,omitempty"`
	AuthFileName string   `mapstructure:"auth_file" json:"auth_file,omitempty" yaml:"auth_file,omitempty" toml:"auth_file,omitempty"`

	CacheBudget libsze.Size `mapstructure:"cache_budget" json:"cache_budget,omitempty" yaml:"cache_budget,omitempty" toml:"cache_budget,omitempty"`
}

// DefaultCoreConfig returns the scalar defaults the teacher's original
// implementation falls back to when a flag or key is absent.
func DefaultCoreConfig() CoreConfig {
	return CoreConfig{
		DocumentRoot: ".",
		CGIPattern:   "",
		CGILimit:     0,
		Charset:      "utf-8",
		MaxAge:       -1,
		IndexNames:   []string{"index.html", "index.htm"},
		CacheBudget:  libsze.Size(100 * 1024 * 1024),
	}
}

// Validate checks the document root, the listener set and every throttle
// rule, folding every failure it finds into one returned Error.
func (c CoreConfig) Validate() liberr.Error {
	e := ErrorValidatorError.Error()

	if len(c.DocumentRoot) < 1 {
		e.Add(ErrorDocumentRootMissing.Error())
	}

	if len(c.Listen) < 1 {
		e.Add(ErrorListenEmpty.Error())
	}

	for i, l := range c.Listen {
		if err := l.Validate(); err != nil {
			//nolint #goerr113
			e.Add(fmt.Errorf("config field 'Listen[%d]': %s", i, err.Error()))
		}
	}

	for i, t := range c.Throttles {
		if err := t.Validate(); err != nil {
			//nolint #goerr113
			e.Add(fmt.Errorf("config field 'Throttles[%d]': %s", i, err.Error()))
		}
	}

	if !e.HasParent() {
		return nil
	}

	return e
}
