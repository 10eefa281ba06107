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

package cgi

import (
	"strings"

	"github.com/nabbar/thttpd-core/httpcore"
)

// BuildArgv derives the child's argument vector from the query string: a
// query with no '=' is a keyword search (ISINDEX-style), split on '+' and
// percent-decoded word by word; a query with '=' is form data and passed
// through the environment only, so the script receives no extra argv.
func BuildArgv(scriptName, query string) []string {
	argv := []string{scriptName}

	if query == "" || strings.Contains(query, "=") {
		return argv
	}

	for _, word := range strings.Split(query, "+") {
		if decoded, err := httpcore.PercentDecode(word); err == nil {
			argv = append(argv, decoded)
		} else {
			argv = append(argv, word)
		}
	}

	return argv
}
