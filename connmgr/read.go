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

package connmgr

import (
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/nabbar/thttpd-core/httpcore"
	"github.com/nabbar/thttpd-core/timer"
)

// handleReadable runs one non-blocking read attempt for a READING
// connection, feeds the bytes through Accumulate, and on a complete
// request hands off to the dispatch pipeline. Partial requests just leave
// the connection in READING, refreshing its idle timer.
func (m *Manager) handleReadable(c *Conn, now time.Time) {
	buf := make([]byte, 8192)
	n, err := nbRead(c.Fd, buf)

	switch {
	case n > 0:
		c.Request.Raw = append(c.Request.Raw, buf[:n]...)
		c.ActiveAt = now
		m.rearmIdle(c, now)
	case wouldBlock(err):
		return
	default:
		// EOF or a hard error: the client went away mid-request.
		m.closeConn(c)
		return
	}

	switch httpcore.Accumulate(c.Request.Raw) {
	case httpcore.NoRequest:
		return
	case httpcore.BadRequest:
		m.respondError(c, int(httpcore.ErrBadRequest), now)
		return
	case httpcore.GotRequest:
		m.dispatch(c, now)
	}
}

// dispatch runs the parse/resolve/authorize/respond pipeline once a full
// request has been accumulated.
func (m *Manager) dispatch(c *Conn, now time.Time) {
	req := c.Request

	if perr := httpcore.Parse(req); perr != nil {
		m.respondError(c, httpcore.StatusFor(perr), now)
		return
	}

	resolveOpt := httpcore.ResolveOptions{
		DocumentRoot: m.cfg.DocumentRoot,
		VirtualHost:  m.cfg.VHost,
		LocalHostname: m.cfg.Host,
	}

	result, rerr := httpcore.ResolvePath(resolveOpt, req.DecodedPath, req.Host)
	if rerr != nil {
		m.respondError(c, httpcore.StatusFor(rerr), now)
		return
	}
	req.ExpandedPath = result.ExpandedPath
	req.PathInfo = result.PathInfo

	if cerr := httpcore.CheckReferrer(m.cfg.URLPattern, m.cfg.LocalPattern, filepath.Base(req.ExpandedPath), req.Referrer, m.cfg.NoEmptyReferrers); cerr != nil {
		m.respondError(c, httpcore.StatusFor(cerr), now)
		return
	}

	if m.cfg.AuthFileName != "" {
		authPath := filepath.Join(m.cfg.DocumentRoot, filepath.Dir(req.ExpandedPath), m.cfg.AuthFileName)
		if info, statErr := os.Stat(authPath); statErr == nil {
			_, ok, aerr := httpcore.CheckBasicAuth(m.auth, req.Authorization, authPath, info.ModTime())
			if aerr != nil || !ok {
				m.respondError(c, int(httpcore.ErrUnauthorized), now)
				return
			}
		}
	}

	outcome := httpcore.Dispatch(httpcore.DispatchOptions{
		CGIPattern: m.cfg.CGIPattern,
		IndexNames: m.cfg.IndexNames,
	}, m.cfg.DocumentRoot, req.ExpandedPath, req.Method)

	req.IsCGI = outcome.IsCGI
	req.Status = outcome.Status

	switch {
	case outcome.RedirectTo != "":
		m.respondRedirect(c, outcome.RedirectTo, now)
	case outcome.IsCGI:
		m.startCGI(c, outcome, now)
	case outcome.Status >= 400:
		m.respondError(c, outcome.Status, now)
	default:
		m.respondFile(c, outcome, now)
	}
}

// respondFile maps the resolved file into the cache, negotiates encoding
// and range, builds the header block, and flips the connection to SENDING.
func (m *Manager) respondFile(c *Conn, outcome httpcore.Outcome, now time.Time) {
	req := c.Request

	choice, info := httpcore.ResolveEncoding(outcome.FilePath, req.AcceptEncoding, os.Stat)
	if info == nil {
		m.respondError(c, int(httpcore.ErrNotFound), now)
		return
	}

	if httpcore.NotModified(req.IfModifiedSince, info.ModTime()) {
		m.sendHeaderOnly(c, 304, "", 0, info.ModTime(), now)
		return
	}

	rng := httpcore.ByteRange{}
	if req.Range != "" {
		rng = httpcore.ParseRange(req.Range, info.Size())
	}

	mapped, merr := m.cache.Map(choice.Path, info, now)
	if merr != nil {
		m.respondError(c, int(httpcore.ErrInternal), now)
		return
	}

	c.Mapped = mapped
	c.MappedLen = info.Size()

	start, end := int64(0), info.Size()
	if rng.Valid {
		start, end = rng.Start, rng.End+1
	}
	c.NextByteIndex = start
	c.EndByteIndex = end

	headers := httpcore.BuildHeaders(httpcore.HeaderOptions{
		ServerToken: "thttpd-core",
		P3P:         m.cfg.P3P,
		MaxAge:      m.cfg.MaxAge,
	}, outcome.Status, choice.Encoding, outcome.ContentType, info.Size(), info.ModTime(), rng, now)

	c.HeaderBuf = headers
	c.Throttle = m.Throttles.Match(req.DecodedPath)
	if c.Throttle != nil {
		c.Throttle.Bind()
	}

	if req.Method == httpcore.MethodHead {
		c.NextByteIndex = c.EndByteIndex
	}

	m.beginSending(c, now)
}

// respondRedirect and respondError both synthesize a body and send it as
// the whole response, with no mapped file behind it.
func (m *Manager) respondRedirect(c *Conn, location string, now time.Time) {
	body := []byte("<html><body>Moved: <a href=\"" + location + "\">" + location + "</a></body></html>")
	headers := httpcore.BuildHeaders(httpcore.HeaderOptions{ServerToken: "thttpd-core"}, 302, "", "text/html", int64(len(body)),
		now, httpcore.ByteRange{}, now)
	headers = append(headers, []byte("Location: "+location+"\r\n")...)
	m.sendSynthesized(c, headers, body, now)
}

func (m *Manager) respondError(c *Conn, status int, now time.Time) {
	if status == 0 {
		status = int(httpcore.ErrInternal)
	}
	body := httpcore.BuildErrorPage(m.cfg.ErrorPageDir, status, "", c.Request.UserAgent)
	headers := httpcore.BuildHeaders(httpcore.HeaderOptions{ServerToken: "thttpd-core"}, status, "", "text/html",
		int64(len(body)), now, httpcore.ByteRange{}, now)
	m.sendSynthesized(c, headers, body, now)
}

func (m *Manager) sendHeaderOnly(c *Conn, status int, contentType string, length int64, mtime, now time.Time) {
	headers := httpcore.BuildHeaders(httpcore.HeaderOptions{ServerToken: "thttpd-core"}, status, "", contentType, length,
		mtime, httpcore.ByteRange{}, now)
	m.sendSynthesized(c, headers, nil, now)
}

// sendSynthesized concatenates headers and an in-memory body into the
// connection's send buffer, bypassing the file cache entirely.
func (m *Manager) sendSynthesized(c *Conn, headers, body []byte, now time.Time) {
	buf := make([]byte, 0, len(headers)+len(body))
	buf = append(buf, headers...)
	buf = append(buf, body...)

	c.HeaderBuf = buf
	c.Mapped = nil
	c.NextByteIndex = 0
	c.EndByteIndex = int64(len(buf))

	m.beginSending(c, now)
}

// logAccess writes one CERN Combined Log Format line for a completed
// request, the way the original's main loop logs right before a
// connection is freed.
func (m *Manager) logAccess(c *Conn, now time.Time) {
	if m.log == nil {
		return
	}

	req := c.Request
	host, _, _ := net.SplitHostPort(c.RemoteAddr)
	if host == "" {
		host = c.RemoteAddr
	}

	proto := req.Protocol
	if proto == "" {
		proto = "HTTP/0.9"
	}

	m.log.Access(host, "-", now, now.Sub(c.AcceptedAt), req.Method.String(),
		req.RawURL, proto, req.Status, req.BytesSent).Log()
}

// rearmIdle resets a connection's idle timer, called whenever it makes
// forward progress (bytes read or written).
func (m *Manager) rearmIdle(c *Conn, now time.Time) {
	if c.WakeupTimer != 0 {
		_ = m.wheel.Cancel(c.WakeupTimer)
	}
	c.WakeupTimer = m.wheel.Create(now.Add(IdleTimeout), m.onIdleFire,
		timer.ClientData{Kind: timer.KindIdle, ConnID: c.Index}, 0, false)
}
