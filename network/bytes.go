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

// Bytes is a byte count formatted with binary prefixes (KB = 2^10), unlike
// Number which scales in decimal.
type Bytes uint64

// String returns the plain decimal representation of b.
func (b Bytes) String() string {
	return strconv.FormatUint(uint64(b), 10)
}

// AsNumber reinterprets b as a plain count.
func (b Bytes) AsNumber() Number {
	return Number(b)
}

// AsUint64 returns b as a uint64.
func (b Bytes) AsUint64() uint64 {
	return uint64(b)
}

// AsFloat64 returns b as a float64.
func (b Bytes) AsFloat64() float64 {
	return float64(b)
}

const binaryUnit = 1024.0

func (b Bytes) scale() (float64, string) {
	v := float64(b)

	switch {
	case v >= math.Pow(binaryUnit, 6):
		return math.Pow(binaryUnit, 6), "EB"
	case v >= math.Pow(binaryUnit, 5):
		return math.Pow(binaryUnit, 5), "PB"
	case v >= math.Pow(binaryUnit, 4):
		return math.Pow(binaryUnit, 4), "TB"
	case v >= math.Pow(binaryUnit, 3):
		return math.Pow(binaryUnit, 3), "GB"
	case v >= binaryUnit*binaryUnit:
		return binaryUnit * binaryUnit, "MB"
	case v >= binaryUnit:
		return binaryUnit, "KB"
	default:
		return 1, ""
	}
}

// FormatUnitInt renders b scaled to its matching binary unit, rounded to the
// nearest whole number, right-padded to a fixed width.
func (b Bytes) FormatUnitInt() string {
	scale, unit := b.scale()
	val := int64(math.Round(float64(b) / scale))

	return fmt.Sprintf(_PadIntPattern_+" %s", val, unit)
}

// FormatUnitFloat renders b scaled to its matching binary unit at the given
// decimal precision. A precision of zero delegates to FormatUnitInt.
func (b Bytes) FormatUnitFloat(precision int) string {
	if precision <= 0 {
		return b.FormatUnitInt()
	}

	scale, unit := b.scale()
	val := float64(b) / scale

	return fmt.Sprintf("%6.*f %s", precision, val, unit)
}
