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
	"fmt"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// StatusTitle maps a status code to the short reason phrase send_mime
// puts on the status line.
func StatusTitle(status int) string {
	switch status {
	case 200:
		return "OK"
	case 206:
		return "Partial Content"
	case 302:
		return "Found"
	case 304:
		return "Not Modified"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 408:
		return "Request Timeout"
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	case 503:
		return "Service Unavailable"
	default:
		return "Unknown"
	}
}

// MimeTypeFor returns the content type for a file path, defaulting to the
// generic octet-stream type exactly like the original's extension table
// fallback.
func MimeTypeFor(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "application/octet-stream"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// ByteRange is a parsed, already-clamped "N-M" range.
type ByteRange struct {
	Start, End int64 // inclusive, End < total
	Valid      bool
}

// ParseRange interprets a Range header value against a resource of the
// given total length. Only "N-" and "N-M" forms are recognized (a comma
// already disabled Range during parsing); anything else, or a range that
// doesn't fit the resource, comes back invalid.
func ParseRange(spec string, total int64) ByteRange {
	spec = strings.TrimPrefix(spec, "bytes=")
	dash := strings.IndexByte(spec, '-')
	if dash < 0 {
		return ByteRange{}
	}

	startStr := spec[:dash]
	endStr := spec[dash+1:]

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 || start >= total {
		return ByteRange{}
	}

	end := total - 1
	if endStr != "" {
		e, err2 := strconv.ParseInt(endStr, 10, 64)
		if err2 != nil || e < start {
			return ByteRange{}
		}
		if e < end {
			end = e
		}
	}

	return ByteRange{Start: start, End: end, Valid: true}
}

// HeaderOptions carries everything send_mime needs beyond the request
// itself, so this package stays free of a direct config import.
type HeaderOptions struct {
	ServerToken string
	P3P         string
	MaxAge      int // seconds; negative disables Cache-Control/Expires
	Extra       []string
}

// BuildHeaders assembles the status line and header block send_mime
// produces, as a single buffer ready to be prepended to the body (or the
// whole response for HEAD/error cases). now is the Date: header's clock
// reading.
func BuildHeaders(opt HeaderOptions, status int, encoding, contentType string, length int64, mtime time.Time, rng ByteRange, now time.Time) []byte {
	if status == 200 && rng.Valid {
		status = 206
	}

	var b strings.Builder

	fmt.Fprintf(&b, "HTTP/1.0 %d %s\r\n", status, StatusTitle(status))
	if opt.ServerToken != "" {
		fmt.Fprintf(&b, "Server: %s\r\n", opt.ServerToken)
	}
	fmt.Fprintf(&b, "Date: %s\r\n", now.UTC().Format(time.RFC1123))

	lm := mtime
	if lm.IsZero() {
		lm = now
	}
	fmt.Fprintf(&b, "Last-Modified: %s\r\n", lm.UTC().Format(time.RFC1123))

	if contentType != "" {
		fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	}

	b.WriteString("Accept-Ranges: bytes\r\n")
	b.WriteString("Connection: close\r\n")

	if status >= 400 {
		b.WriteString("Cache-Control: no-cache,no-store\r\n")
	} else if opt.MaxAge >= 0 {
		fmt.Fprintf(&b, "Cache-Control: max-age=%d\r\n", opt.MaxAge)
		fmt.Fprintf(&b, "Expires: %s\r\n", now.Add(time.Duration(opt.MaxAge)*time.Second).UTC().Format(time.RFC1123))
	}

	if encoding != "" {
		fmt.Fprintf(&b, "Content-Encoding: %s\r\n", encoding)
	}

	if status == 206 {
		fmt.Fprintf(&b, "Content-Range: bytes %d-%d/%d\r\n", rng.Start, rng.End, length)
		fmt.Fprintf(&b, "Content-Length: %d\r\n", rng.End-rng.Start+1)
	} else {
		fmt.Fprintf(&b, "Content-Length: %d\r\n", length)
	}

	if opt.P3P != "" {
		fmt.Fprintf(&b, "P3P: %s\r\n", opt.P3P)
	}

	for _, extra := range opt.Extra {
		b.WriteString(extra)
		b.WriteString("\r\n")
	}

	b.WriteString("\r\n")

	return []byte(b.String())
}
