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
	"strconv"
	"strings"
	"time"

	liberr "github.com/nabbar/thttpd-core/erro"
)

// Parse turns a complete, Accumulate-recognized request (first line plus,
// for HTTP/1.x, its header block) into req's fields. req.Raw must already
// hold the whole thing.
func Parse(req *Request) liberr.Error {
	text := string(req.Raw)

	lineEnd := strings.IndexAny(text, "\r\n")
	firstLine := text
	rest := ""
	if lineEnd >= 0 {
		firstLine = text[:lineEnd]
		rest = consumeEOL(text[lineEnd:])
	}

	if err := parseFirstLine(req, firstLine); err != nil {
		return err
	}

	if req.Protocol == "" {
		// HTTP/0.9: no headers at all.
		return nil
	}

	for rest != "" {
		idx := strings.IndexAny(rest, "\r\n")
		var line string
		if idx < 0 {
			line = rest
			rest = ""
		} else {
			line = rest[:idx]
			rest = consumeEOL(rest[idx:])
		}

		if line == "" {
			break
		}

		if err := parseHeaderLine(req, line); err != nil {
			return err
		}
	}

	if req.Protocol == "HTTP/1.1" && req.Host == "" {
		return ErrBadRequest.Error()
	}

	return nil
}

func consumeEOL(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		return s[2:]
	}
	if len(s) > 0 && (s[0] == '\r' || s[0] == '\n') {
		return s[1:]
	}
	return s
}

func parseFirstLine(req *Request, line string) liberr.Error {
	fields := strings.Fields(line)

	switch len(fields) {
	case 2:
		req.Method = ParseMethod(fields[0])
		req.Protocol = ""
	case 3:
		req.Method = ParseMethod(fields[0])
		req.Protocol = strings.ToUpper(fields[2])
		if req.Protocol != "HTTP/1.0" && req.Protocol != "HTTP/1.1" {
			return ErrBadRequest.Error()
		}
	default:
		return ErrBadRequest.Error()
	}

	if req.Method == MethodUnknown {
		return ErrNotImplemented.Error()
	}

	url := fields[1]

	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		if req.Protocol != "HTTP/1.1" {
			return ErrBadRequest.Error()
		}
		rest := url[strings.Index(url, "://")+3:]
		slash := strings.IndexByte(rest, '/')
		if slash < 0 {
			return ErrBadRequest.Error()
		}
		req.Host = rest[:slash]
		url = rest[slash:]
	}

	if idx := strings.IndexByte(url, '?'); idx >= 0 {
		req.Query = url[idx+1:]
		url = url[:idx]
	}
	req.RawURL = url

	if !strings.HasPrefix(url, "/") {
		return ErrBadRequest.Error()
	}

	decoded, err := PercentDecode(url)
	if err != nil {
		return err
	}

	canon, err := CanonicalizePath(decoded)
	if err != nil {
		return err
	}
	req.DecodedPath = canon

	return nil
}

func parseHeaderLine(req *Request, line string) liberr.Error {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return nil
	}

	name := strings.ToLower(strings.TrimSpace(line[:idx]))
	value := strings.TrimSpace(line[idx+1:])

	const maxAccumulated = 5000

	switch name {
	case "host":
		if req.Host != "" {
			break
		}
		h := value
		if idx := strings.LastIndexByte(h, ':'); idx >= 0 {
			h = h[:idx]
		}
		if strings.Contains(h, "/") || strings.HasPrefix(h, ".") {
			return ErrBadRequest.Error()
		}
		req.Host = h
	case "user-agent":
		req.UserAgent = value
	case "accept":
		req.Accept = appendCapped(req.Accept, value, maxAccumulated)
	case "accept-encoding":
		req.AcceptEncoding = appendCapped(req.AcceptEncoding, value, maxAccumulated)
	case "referer", "referrer":
		req.Referrer = value
	case "cookie":
		req.Cookie = value
	case "authorization":
		req.Authorization = value
	case "content-type":
		req.ContentType = value
	case "content-length":
		n, perr := strconv.ParseInt(value, 10, 64)
		if perr != nil || n < 0 {
			return ErrBadRequest.Error()
		}
		req.ContentLength = n
	case "if-modified-since":
		if t, perr := parseHTTPDate(value); perr == nil {
			req.IfModifiedSince = t
		}
	case "if-unmodified-since":
		if t, perr := parseHTTPDate(value); perr == nil {
			req.IfUnmodified = t
		}
	case "range":
		if !strings.Contains(value, ",") {
			req.Range = value
		}
	case "if-range":
		req.RangeIfMatch = value
	case "connection":
		req.Connection = value
		if strings.Contains(strings.ToLower(value), "keep-alive") {
			req.KeepAliveHint = true
		}
	case "expect":
		if strings.EqualFold(value, "100-continue") {
			req.Expect100 = true
		}
	}

	return nil
}

func appendCapped(cur, add string, limit int) string {
	if cur != "" {
		cur = cur + ", " + add
	} else {
		cur = add
	}
	if len(cur) > limit {
		cur = cur[:limit]
	}
	return cur
}

var httpDateLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.ANSIC,
}

func parseHTTPDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range httpDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
