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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nabbar/thttpd-core/httpcore"
)

// OutputInterposer reads a parsed-header CGI response from r, accumulating
// bytes until the first blank-line separator, deriving a status code from
// any "Status:"/"HTTP/..." line seen (defaulting to 200, or 302 when only
// a "Location:" header is present), then writes a proper HTTP status line
// followed by the accumulated headers and the streamed remainder to w.
// Scripts whose name begins with "nph-" bypass this entirely: their bytes
// go straight to the connection.
func OutputInterposer(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)

	var headerBuf bytes.Buffer
	status := 200
	haveStatus := false
	haveLocation := false

	for {
		line, err := br.ReadString('\n')
		headerBuf.WriteString(line)

		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			break
		}

		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "status:"):
			if fields := strings.Fields(trimmed[len("status:"):]); len(fields) > 0 {
				if n, convErr := strconv.Atoi(fields[0]); convErr == nil {
					status, haveStatus = n, true
				}
			}
		case strings.HasPrefix(lower, "location:"):
			haveLocation = true
		case strings.HasPrefix(lower, "http/"):
			if fields := strings.Fields(trimmed); len(fields) >= 2 {
				if n, convErr := strconv.Atoi(fields[1]); convErr == nil {
					status, haveStatus = n, true
				}
			}
		}

		if err != nil {
			break
		}
	}

	if !haveStatus && haveLocation {
		status = 302
	}

	if _, err := fmt.Fprintf(w, "HTTP/1.0 %d %s\r\n", status, httpcore.StatusTitle(status)); err != nil {
		return err
	}
	if _, err := w.Write(headerBuf.Bytes()); err != nil {
		return err
	}

	_, err := io.Copy(w, br)
	return err
}
