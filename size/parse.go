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

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var reSize = regexp.MustCompile(`^([0-9]*\.?[0-9]*)\s*([A-Za-z]*)$`)

// Parse reads a human-readable byte count such as "5MB", "1.5 GB" or "512"
// (with a preceding value and no unit rejected as incomplete) into a Size.
func Parse(s string) (Size, error) {
	s = strings.TrimSpace(s)

	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}

	if s == "" {
		//nolint #goerr113
		return SizeNul, fmt.Errorf("size: invalid size: empty input")
	}

	if strings.HasPrefix(s, "-") {
		//nolint #goerr113
		return SizeNul, fmt.Errorf("size: invalid size: negative value not allowed")
	}

	s = strings.TrimPrefix(s, "+")

	m := reSize.FindStringSubmatch(s)
	if m == nil {
		//nolint #goerr113
		return SizeNul, fmt.Errorf("size: invalid size: malformed input %q", s)
	}

	numPart, unitPart := m[1], m[2]

	if numPart == "" || numPart == "." {
		//nolint #goerr113
		return SizeNul, fmt.Errorf("size: invalid size: missing number in %q", s)
	}

	if unitPart == "" {
		//nolint #goerr113
		return SizeNul, fmt.Errorf("size: invalid size: missing unit in %q", s)
	}

	mantissa, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		//nolint #goerr113
		return SizeNul, fmt.Errorf("size: invalid size: %w", err)
	}

	mult, err := unitMultiplier(unitPart)
	if err != nil {
		return SizeNul, err
	}

	value := mantissa * mult
	if value < 0 || value > float64(math.MaxUint64) {
		//nolint #goerr113
		return SizeNul, fmt.Errorf("size: invalid size: value overflow in %q", s)
	}

	return Size(value), nil
}

func unitMultiplier(unit string) (float64, error) {
	switch strings.ToUpper(unit) {
	case "B":
		return 1, nil
	case "K", "KB":
		return float64(SizeKilo), nil
	case "M", "MB":
		return float64(SizeMega), nil
	case "G", "GB":
		return float64(SizeGiga), nil
	case "T", "TB":
		return float64(SizeTera), nil
	case "P", "PB":
		return float64(SizePeta), nil
	case "E", "EB":
		return float64(SizeExa), nil
	default:
		//nolint #goerr113
		return 0, fmt.Errorf("size: invalid size: unknown unit %q", unit)
	}
}

// ParseByte is Parse over a byte slice.
func ParseByte(b []byte) (Size, error) {
	return Parse(string(b))
}

// ParseSize is a deprecated alias of Parse.
func ParseSize(s string) (Size, error) {
	return Parse(s)
}

// ParseByteAsSize is a deprecated alias of ParseByte.
func ParseByteAsSize(b []byte) (Size, error) {
	return ParseByte(b)
}

// GetSize is a deprecated, error-swallowing alias of Parse.
func GetSize(s string) (Size, bool) {
	v, err := Parse(s)
	if err != nil {
		return SizeNul, false
	}
	return v, true
}
