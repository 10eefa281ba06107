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

package size

import "fmt"

// prefix returns the binary-unit letter ("", "K", "M", "G", "T", "P", "E")
// and the divisor matching that scale for the current value of s.
func (s Size) prefix() (string, float64) {
	switch {
	case s >= SizeExa:
		return "E", float64(SizeExa)
	case s >= SizePeta:
		return "P", float64(SizePeta)
	case s >= SizeTera:
		return "T", float64(SizeTera)
	case s >= SizeGiga:
		return "G", float64(SizeGiga)
	case s >= SizeMega:
		return "M", float64(SizeMega)
	case s >= SizeKilo:
		return "K", float64(SizeKilo)
	default:
		return "", 1
	}
}

// Unit returns the binary-unit suffix matching s's scale ("B", "KB", "MB", ...).
// A non-zero suffix overrides the trailing letter in place of the package
// default set by SetDefaultUnit.
func (s Size) Unit(suffix rune) string {
	p, _ := s.prefix()

	if suffix == 0 {
		suffix = defaultUnit
	}

	return p + string(suffix)
}

// Code is a deprecated alias of Unit, kept for sources written against
// earlier releases.
func (s Size) Code(suffix rune) string {
	return s.Unit(suffix)
}

// Format renders s scaled to its matching unit using the given fmt verb
// pattern (see FormatRound0..FormatRound3).
func (s Size) Format(pattern string) string {
	_, divisor := s.prefix()
	return fmt.Sprintf(pattern, float64(s)/divisor)
}

// String renders s at two-decimal precision with its matching unit suffix.
func (s Size) String() string {
	return s.Format(FormatRound2) + s.Unit(0)
}

// KiloBytes returns s expressed as a whole number of kilobytes, floored.
func (s Size) KiloBytes() uint64 {
	return uint64(s) / uint64(SizeKilo)
}

// MegaBytes returns s expressed as a whole number of megabytes, floored.
func (s Size) MegaBytes() uint64 {
	return uint64(s) / uint64(SizeMega)
}

// GigaBytes returns s expressed as a whole number of gigabytes, floored.
func (s Size) GigaBytes() uint64 {
	return uint64(s) / uint64(SizeGiga)
}

// TeraBytes returns s expressed as a whole number of terabytes, floored.
func (s Size) TeraBytes() uint64 {
	return uint64(s) / uint64(SizeTera)
}

// PetaBytes returns s expressed as a whole number of petabytes, floored.
func (s Size) PetaBytes() uint64 {
	return uint64(s) / uint64(SizePeta)
}

// ExaBytes returns s expressed as a whole number of exabytes, floored.
func (s Size) ExaBytes() uint64 {
	return uint64(s) / uint64(SizeExa)
}
