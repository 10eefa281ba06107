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

package httpcore

import (
	"strings"

	liberr "github.com/nabbar/thttpd-core/erro"
)

// PercentDecode unescapes %XX sequences in place. A truncated escape or a
// non-hex pair is a BadRequest; a decoded NUL is rejected the same way,
// since nothing downstream can safely treat it as an ordinary byte.
func PercentDecode(s string) (string, liberr.Error) {
	if !strings.ContainsRune(s, '%') {
		return s, nil
	}

	out := make([]byte, 0, len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			out = append(out, c)
			continue
		}

		if i+2 >= len(s) {
			return "", ErrBadRequest.Error()
		}

		hi, okHi := hexVal(s[i+1])
		lo, okLo := hexVal(s[i+2])
		if !okHi || !okLo {
			return "", ErrBadRequest.Error()
		}

		v := byte(hi<<4 | lo)
		if v == 0 {
			return "", ErrBadRequest.Error()
		}

		out = append(out, v)
		i += 2
	}

	return string(out), nil
}

func hexVal(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}
