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

import "io"

// InputInterposer streams a POST body into the child's stdin: whatever was
// already read ahead into leftover goes first, then the remainder of
// contentLength is copied from body. Up to two trailing bytes some clients
// send past the declared Content-Length are drained from body (not
// forwarded to the child) so they aren't mistaken for the next request.
func InputInterposer(w io.Writer, leftover []byte, body io.Reader, contentLength int64) error {
	remaining := contentLength

	if len(leftover) > 0 {
		n := int64(len(leftover))
		if n > remaining {
			n = remaining
		}
		if _, err := w.Write(leftover[:n]); err != nil {
			return err
		}
		remaining -= n
	}

	if remaining > 0 {
		if _, err := io.CopyN(w, body, remaining); err != nil && err != io.EOF {
			return err
		}
	}

	garbage := make([]byte, 2)
	_, _ = io.ReadFull(body, garbage)

	return nil
}
