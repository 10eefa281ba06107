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
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	liberr "github.com/nabbar/thttpd-core/erro"
	libsze "github.com/nabbar/thttpd-core/size"

	"github.com/nabbar/thttpd-core/config"
)

// boundThrottle is one throttle rule together with the live accounting the
// connection manager keeps against it: how many connections currently
// match the pattern, and the per-connection share of Max that redistribute
// last computed for them.
type boundThrottle struct {
	rule config.ThrottleRule

	mu      sync.Mutex
	bound   int     // connections currently sending against this rule
	ema     float64 // smoothed aggregate bytes/sec actually observed
	current float64 // per-connection byte budget, refreshed by Redistribute
}

// Table is the set of throttle rules in force, ordered as read from the
// throttle file (first match wins, matching glob precedence in the
// original).
type Table struct {
	mu    sync.RWMutex
	rules []*boundThrottle
}

// NewTable wraps a parsed rule set in a Table ready for matching.
func NewTable(rules []config.ThrottleRule) *Table {
	t := &Table{rules: make([]*boundThrottle, 0, len(rules))}
	for _, r := range rules {
		t.rules = append(t.rules, &boundThrottle{rule: r})
	}
	return t
}

// Match returns the first rule whose pattern matches urlPath, or nil.
func (t *Table) Match(urlPath string) *boundThrottle {
	if t == nil {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, b := range t.rules {
		if ok, _ := filepath.Match(b.rule.Pattern, urlPath); ok {
			return b
		}
	}
	return nil
}

// Bind increments a rule's bound-connection count, called once when a
// request starts sending against it.
func (b *boundThrottle) Bind() {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.bound++
	b.mu.Unlock()
}

// Unbind decrements the bound count, called once the connection stops
// sending (lingering, closed, or reassigned). Floors at zero.
func (b *boundThrottle) Unbind() {
	if b == nil {
		return
	}
	b.mu.Lock()
	if b.bound > 0 {
		b.bound--
	}
	b.mu.Unlock()
}

// Budget reports the byte allowance currently assigned to one connection
// bound to this rule.
func (b *boundThrottle) Budget() float64 {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// emaAlpha weights the exponential moving average redistribute folds each
// observed throughput sample into.
const emaAlpha = 0.3

// Redistribute recomputes, for every bound rule, the even per-connection
// share of its Max rate, floored at Min when set. Called periodically by
// the main loop off a KindUpdateThrottles timer, matching the "occasional"
// recompute the original runs once a second.
func (t *Table) Redistribute() {
	if t == nil {
		return
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, b := range t.rules {
		b.mu.Lock()
		if b.bound > 0 {
			share := float64(b.rule.Max) / float64(b.bound)
			if b.rule.Min > 0 && share < float64(b.rule.Min) {
				share = float64(b.rule.Min)
			}
			b.ema = b.ema*(1-emaAlpha) + share*emaAlpha
			b.current = share
		} else {
			b.current = float64(b.rule.Max)
		}
		b.mu.Unlock()
	}
}

// ParseThrottleFile reads the throttle-file grammar: one rule per
// non-blank, non-'#' line, "pattern rate" or "pattern min-max", where a
// rate is a plain byte count or carries a "K"/"M"/"G" suffix (binary, case
// insensitive). This lives in CORE because the connection manager is what
// owns throttle-table construction as requests arrive; a cmd-level loader
// only knows the file's path, not the glob/rate grammar matching the
// request path depends on.
func ParseThrottleFile(path string) ([]config.ThrottleRule, liberr.Error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrorThrottleFile.Error(err)
	}
	defer func() { _ = f.Close() }()

	var rules []config.ThrottleRule

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, ErrorThrottleLine.Error()
		}

		rule := config.ThrottleRule{Pattern: fields[0]}

		if dash := strings.IndexByte(fields[1], '-'); dash >= 0 {
			min, merr := parseRate(fields[1][:dash])
			if merr != nil {
				return nil, ErrorThrottleLine.Error(merr)
			}
			max, merr2 := parseRate(fields[1][dash+1:])
			if merr2 != nil {
				return nil, ErrorThrottleLine.Error(merr2)
			}
			rule.Min, rule.Max = min, max
		} else {
			max, merr := parseRate(fields[1])
			if merr != nil {
				return nil, ErrorThrottleLine.Error(merr)
			}
			rule.Max = max
		}

		if verr := rule.Validate(); verr != nil {
			return nil, ErrorThrottleLine.Error(verr)
		}

		rules = append(rules, rule)
	}

	if serr := scanner.Err(); serr != nil {
		return nil, ErrorThrottleFile.Error(serr)
	}

	return rules, nil
}

func parseRate(s string) (libsze.Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrorThrottleLine.Error()
	}

	mul := libsze.SizeUnit
	last := s[len(s)-1]
	switch last {
	case 'k', 'K':
		mul = libsze.SizeKilo
		s = s[:len(s)-1]
	case 'm', 'M':
		mul = libsze.SizeMega
		s = s[:len(s)-1]
	case 'g', 'G':
		mul = libsze.SizeGiga
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}

	return libsze.Size(n) * mul, nil
}
