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
	"path/filepath"
	"strings"

	liberr "github.com/nabbar/thttpd-core/erro"
)

// CheckReferrer implements the referrer check: when urlPattern matches
// the request's origin filename, the Referer header's host portion must
// match localPattern (case-insensitive glob). A missing referrer passes
// unless noEmptyReferrers is set.
func CheckReferrer(urlPattern, localPattern, originFilename, referrer string, noEmptyReferrers bool) liberr.Error {
	if urlPattern == "" {
		return nil
	}

	matched, err := filepath.Match(urlPattern, originFilename)
	if err != nil || !matched {
		return nil
	}

	if referrer == "" {
		if noEmptyReferrers {
			return ErrForbidden.Error()
		}
		return nil
	}

	host := refererHost(referrer)

	ok, err := filepath.Match(strings.ToLower(localPattern), strings.ToLower(host))
	if err != nil || !ok {
		return ErrForbidden.Error()
	}

	return nil
}

// refererHost extracts the host portion of a Referer value: the text
// between "//" and the first '/' or ':' after it.
func refererHost(referrer string) string {
	idx := strings.Index(referrer, "//")
	if idx < 0 {
		return ""
	}
	rest := referrer[idx+2:]

	end := len(rest)
	for i, c := range rest {
		if c == '/' || c == ':' {
			end = i
			break
		}
	}

	return rest[:end]
}
