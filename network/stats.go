/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package network

import (
	"fmt"
	"sort"
)

// Stats identifies one of the connection manager's per-interface counters.
type Stats uint8

const (
	StatBytes Stats = iota + 1
	StatPackets
	StatFifo
	StatDrop
	StatErr
)

// String returns the counter's display label, or "" for an unknown Stats
// value.
func (s Stats) String() string {
	switch s {
	case StatBytes:
		return "Traffic"
	case StatPackets:
		return "Packets"
	case StatFifo:
		return "Fifo"
	case StatDrop:
		return "Drop"
	case StatErr:
		return "Error"
	default:
		return ""
	}
}

// FormatUnitInt formats n the way this counter is conventionally displayed:
// binary units for StatBytes, decimal units for every other counter.
func (s Stats) FormatUnitInt(n Number) string {
	switch s {
	case StatBytes:
		return n.AsBytes().FormatUnitInt()
	case StatPackets, StatFifo, StatDrop, StatErr:
		return n.FormatUnitInt()
	default:
		return ""
	}
}

// FormatUnitFloat is FormatUnitInt at a given decimal precision.
func (s Stats) FormatUnitFloat(n Number, precision int) string {
	switch s {
	case StatBytes:
		return n.AsBytes().FormatUnitFloat(precision)
	case StatPackets, StatFifo, StatDrop, StatErr:
		return n.FormatUnitFloat(precision)
	default:
		return ""
	}
}

// FormatUnit is FormatUnitFloat at the counter's default precision: 2 for
// byte traffic, integer for everything else.
func (s Stats) FormatUnit(n Number) string {
	switch s {
	case StatBytes:
		return s.FormatUnitFloat(n, 2)
	case StatPackets, StatFifo, StatDrop, StatErr:
		return s.FormatUnitInt(n)
	default:
		return ""
	}
}

// FormatLabelUnit prefixes FormatUnit's result with the counter's label.
func (s Stats) FormatLabelUnit(n Number) string {
	return fmt.Sprintf("%s:%s", s.String(), s.FormatUnit(n))
}

// FormatLabelUnitPadded is FormatLabelUnit with the label padded to a
// consistent column width, for aligned multi-line reports.
func (s Stats) FormatLabelUnitPadded(n Number) string {
	return fmt.Sprintf("%-9s%s", s.String()+":", s.FormatUnit(n))
}

// ListStatsSort returns every Stats value, ascending.
func ListStatsSort() []int {
	list := []int{
		int(StatBytes), int(StatPackets), int(StatFifo), int(StatDrop), int(StatErr),
	}
	sort.Ints(list)
	return list
}
