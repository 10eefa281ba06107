/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package size carries byte-count values through the server the way thttpd's
// configuration, access log and CGI limits need them: parsed from human input
// ("5MB"), compared and accumulated as plain integers, and rendered back out
// for logs and stats.
package size

import (
	"fmt"
	"math"
)

// Size is a byte count. The zero value is SizeNul.
type Size uint64

const (
	SizeNul  Size = 0
	SizeUnit Size = 1
	SizeKilo Size = SizeUnit << 10
	SizeMega Size = SizeKilo << 10
	SizeGiga Size = SizeMega << 10
	SizeTera Size = SizeGiga << 10
	SizePeta Size = SizeTera << 10
	SizeExa  Size = SizePeta << 10
)

const (
	FormatRound0 = "%.0f"
	FormatRound1 = "%.1f"
	FormatRound2 = "%.2f"
	FormatRound3 = "%.3f"
)

var defaultUnit rune = 'B'

// SetDefaultUnit changes the suffix rune used when Code/Unit are called with
// a zero rune. Passing 0 resets it to 'B'.
func SetDefaultUnit(r rune) {
	if r == 0 {
		r = 'B'
	}
	defaultUnit = r
}

// Mul scales s by m, rounding up. Negative multipliers collapse to zero.
func (s *Size) Mul(m float64) {
	_ = s.MulErr(m)
}

// MulErr is Mul reporting an overflow as an error. On overflow s is capped
// at math.MaxUint64.
func (s *Size) MulErr(m float64) error {
	if m < 0 {
		*s = SizeNul
		return nil
	}

	product := math.Ceil(float64(*s) * m)
	if product > float64(math.MaxUint64) {
		*s = Size(math.MaxUint64)
		//nolint #goerr113
		return fmt.Errorf("size: multiplication overflow")
	}

	*s = Size(product)
	return nil
}

// Div scales s down by d, rounding up. Division errors are discarded; use
// DivErr to observe them.
func (s *Size) Div(d float64) {
	_ = s.DivErr(d)
}

// DivErr is Div reporting an invalid divisor as an error. s is left
// unchanged when d is not strictly positive.
func (s *Size) DivErr(d float64) error {
	if d <= 0 {
		//nolint #goerr113
		return fmt.Errorf("size: invalid diviser %v", d)
	}

	*s = Size(math.Ceil(float64(*s) / d))
	return nil
}

// Add increments s by n, capping at math.MaxUint64.
func (s *Size) Add(n uint64) {
	_ = s.AddErr(n)
}

// AddErr is Add reporting an overflow as an error.
func (s *Size) AddErr(n uint64) error {
	sum := uint64(*s) + n
	if sum < uint64(*s) {
		*s = Size(math.MaxUint64)
		//nolint #goerr113
		return fmt.Errorf("size: addition overflow")
	}

	*s = Size(sum)
	return nil
}

// Sub decrements s by n, flooring at zero.
func (s *Size) Sub(n uint64) {
	_ = s.SubErr(n)
}

// SubErr is Sub reporting an underflow as an error.
func (s *Size) SubErr(n uint64) error {
	if n > uint64(*s) {
		*s = SizeNul
		//nolint #goerr113
		return fmt.Errorf("size: invalid substractor %d", n)
	}

	*s = Size(uint64(*s) - n)
	return nil
}
