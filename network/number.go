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
	"math"
	"strconv"
)

// Number is a plain decimal count - packets, drops, errors - formatted with
// SI decimal prefixes (K = 10^3), unlike Bytes which scales in binary.
type Number uint64

// String returns the plain decimal representation of n.
func (n Number) String() string {
	return strconv.FormatUint(uint64(n), 10)
}

// AsBytes reinterprets n as a byte count.
func (n Number) AsBytes() Bytes {
	return Bytes(n)
}

// AsUint64 returns n as a uint64.
func (n Number) AsUint64() uint64 {
	return uint64(n)
}

// AsFloat64 returns n as a float64.
func (n Number) AsFloat64() float64 {
	return float64(n)
}

func (n Number) scalePower() int {
	v := float64(n)
	for _, p := range powerList() {
		if v >= math.Pow(10, float64(p)) {
			return p
		}
	}
	return _PowerUnit_
}

// FormatUnitInt renders n scaled to its matching SI decimal unit, rounded to
// the nearest whole number, right-padded to a fixed width.
func (n Number) FormatUnitInt() string {
	p := n.scalePower()
	unit := power2Unit(p)
	scale := math.Pow(10, float64(p))
	val := int64(math.Round(float64(n) / scale))

	return fmt.Sprintf(_PadIntPattern_+" %s", val, unit)
}

// FormatUnitFloat renders n scaled to its matching SI decimal unit at the
// given decimal precision. A precision of zero delegates to FormatUnitInt.
func (n Number) FormatUnitFloat(precision int) string {
	if precision <= 0 {
		return n.FormatUnitInt()
	}

	p := n.scalePower()
	unit := power2Unit(p)
	scale := math.Pow(10, float64(p))
	val := float64(n) / scale

	return fmt.Sprintf("%6.*f %s", precision, val, unit)
}
