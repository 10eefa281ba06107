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

// CanonicalizePath collapses a decoded URL path into the form the
// resolution pipeline can safely join under a document root: no "//", no
// "." segments, "../" resolved against what precedes it, and no escape
// above the root. It never touches the filesystem.
func CanonicalizePath(p string) (string, liberr.Error) {
	if p == "" {
		return "", ErrBadRequest.Error()
	}

	leadingSlash := strings.HasPrefix(p, "/")

	segs := strings.Split(p, "/")
	out := make([]string, 0, len(segs))

	for _, s := range segs {
		switch s {
		case "", ".":
			continue
		case "..":
			if len(out) == 0 {
				return "", ErrBadRequest.Error()
			}
			out = out[:len(out)-1]
		default:
			out = append(out, s)
		}
	}

	joined := strings.Join(out, "/")

	if leadingSlash {
		joined = "/" + joined
	}
	if joined == "" {
		joined = "/"
	}

	return joined, nil
}

// SplitPathInfo separates a canonicalized path at the first segment that
// is not a directory component of an existing file, per the CGI PATH_INFO
// convention: exists is the callback that checks whether a given prefix
// names something on disk.
func SplitPathInfo(p string, exists func(prefix string) bool) (real, pathInfo string) {
	segs := strings.Split(strings.TrimPrefix(p, "/"), "/")

	prefix := ""
	last := ""

	for i, s := range segs {
		if prefix == "" {
			prefix = "/" + s
		} else {
			prefix = prefix + "/" + s
		}

		if !exists(prefix) {
			if last == "" {
				last = "/"
			}
			return last, "/" + strings.Join(segs[i:], "/")
		}

		last = prefix
	}

	return p, ""
}
