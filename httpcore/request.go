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
	"os"
	"time"
)

// Method is the small fixed set of verbs the engine recognizes; anything
// else is a 501.
type Method uint8

const (
	MethodUnknown Method = iota
	MethodGet
	MethodHead
	MethodPost
	MethodPut
	MethodDelete
	MethodTrace
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodHead:
		return "HEAD"
	case MethodPost:
		return "POST"
	case MethodPut:
		return "PUT"
	case MethodDelete:
		return "DELETE"
	case MethodTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// ParseMethod maps a request-line verb to its Method constant.
func ParseMethod(s string) Method {
	switch s {
	case "GET":
		return MethodGet
	case "HEAD":
		return MethodHead
	case "POST":
		return MethodPost
	case "PUT":
		return MethodPut
	case "DELETE":
		return MethodDelete
	case "TRACE":
		return MethodTrace
	default:
		return MethodUnknown
	}
}

// Request is built up across framing, parsing and resolution. One value is
// reused for the lifetime of a connection's current request; connmgr
// resets it (via Reset) before reading the next one.
type Request struct {
	// Raw holds the bytes read so far for this request, including the
	// header block; Accumulate runs directly against it.
	Raw []byte

	Method      Method
	RawURL      string // as seen on the wire, still percent-encoded
	DecodedPath string // percent-decoded, canonicalized, leading "/"
	PathInfo    string // trailing path-info segment past the real file
	Query       string
	Protocol    string // "HTTP/1.0", "HTTP/1.1", or "" for HTTP/0.9

	Host            string
	UserAgent       string
	Accept          string
	AcceptEncoding  string
	Referrer        string
	Cookie          string
	Authorization   string
	ContentType     string
	ContentLength   int64
	IfModifiedSince time.Time
	IfUnmodified    time.Time
	Range           string
	RangeIfMatch    string
	Connection      string
	Expect100       bool

	// KeepAliveHint records what the client asked for. Nothing reads it
	// to change behavior: every response closes the connection, per the
	// keep-alive Non-goal.
	KeepAliveHint bool

	// Filesystem resolution results, filled in by Resolve.
	ExpandedPath string
	Info         os.FileInfo
	IsCGI        bool

	// Response side.
	Status        int
	MimeType      string
	MimeEncodings string
	Mapped        []byte
	ShouldLinger  bool
	BytesSent     int64
}

// Reset clears a Request for reuse, keeping the backing array of Raw to
// avoid a reallocation on every request.
func (r *Request) Reset() {
	raw := r.Raw[:0]
	*r = Request{Raw: raw}
}
