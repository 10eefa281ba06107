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
	"bytes"
	"os"
	"os/exec"
	"time"

	"github.com/nabbar/thttpd-core/cgi"
	"github.com/nabbar/thttpd-core/httpcore"
	"github.com/nabbar/thttpd-core/oracle"
)

// cgiTimeLimit bounds how long a CGI child may run before ScheduleEscalation
// starts signaling it, matching the original's fixed CGI time limit.
const cgiTimeLimit = 30 * time.Second

// startCGI launches the resolved script as a child process, wiring its
// stdin/stdout to raw, non-blocking pipe descriptors registered with the
// oracle exactly like a socket fd: the main loop drains the child's output
// the same way it drains a client, never blocking on it.
func (m *Manager) startCGI(c *Conn, outcome httpcore.Outcome, now time.Time) {
	if aerr := m.cgi.TryAcquire(); aerr != nil {
		m.respondError(c, int(httpcore.ErrServiceUnavailable), now)
		return
	}

	req := c.Request
	scriptName := req.DecodedPath
	if req.PathInfo != "" {
		scriptName = scriptName[:len(scriptName)-len(req.PathInfo)]
	}

	argv := cgi.BuildArgv(scriptName, req.Query)
	envp := cgi.BuildEnvp(req, cgi.EnvOptions{
		ServerSoftware: "thttpd-core",
		ServerName:     m.cfg.Host,
		ServerPort:     m.cfg.Listen[0].Port,
		RemoteAddr:     c.RemoteAddr,
		DocumentRoot:   m.cfg.DocumentRoot,
	}, scriptName)

	inR, inW, perr := os.Pipe()
	if perr != nil {
		m.cgi.Release()
		m.respondError(c, int(httpcore.ErrInternal), now)
		return
	}
	outR, outW, perr := os.Pipe()
	if perr != nil {
		_ = inR.Close()
		_ = inW.Close()
		m.cgi.Release()
		m.respondError(c, int(httpcore.ErrInternal), now)
		return
	}

	cmd, serr := cgi.Start(cgi.ExecOptions{
		ScriptPath: outcome.FilePath,
		Argv:       argv,
		Envp:       envp,
		Stdin:      inR,
		Stdout:     outW,
		Stderr:     outW,
	})

	// The child now holds its own copies of these descriptors; the
	// parent's are only useful for the opposite direction.
	_ = inR.Close()
	_ = outW.Close()

	if serr != nil {
		_ = inW.Close()
		_ = outR.Close()
		m.cgi.Release()
		m.respondError(c, int(httpcore.ErrInternal), now)
		return
	}

	c.Cmd = cmd
	c.CGIPipeIn = inW
	c.CGIPipeOut = outR
	c.CGIBody = cgiLeftoverBody(req)
	c.CGIOut = nil
	c.CGICancel = cgi.ScheduleEscalation(m.wheel, cmd.Process.Pid, cgiTimeLimit)
	c.NonParsedHeader = cgi.IsNonParsedHeader(outcome.FilePath)

	if len(c.CGIBody) > 0 {
		m.cgiWriteBody(c)
	} else {
		_ = inW.Close()
		c.CGIPipeIn = nil
	}

	fd := int(outR.Fd())
	c.CGIOutFd = fd
	if regErr := m.oracle.Add(fd, oracle.InterestRead, cgiOutTag{conn: c}); regErr != nil {
		m.reapCGI(c)
		m.respondError(c, int(httpcore.ErrInternal), now)
		return
	}

	m.stats.cgiStarted++
}

// cgiLeftoverBody returns whatever request bytes follow the blank line
// ending the header block: a POST body that arrived in the same read(s) as
// the headers, which Accumulate does not strip out for us.
func cgiLeftoverBody(req *httpcore.Request) []byte {
	raw := req.Raw
	if idx := bytes.Index(raw, []byte("\r\n\r\n")); idx >= 0 {
		return raw[idx+4:]
	}
	if idx := bytes.Index(raw, []byte("\n\n")); idx >= 0 {
		return raw[idx+2:]
	}
	return nil
}

// cgiWriteBody writes as much of CGIBody as the pipe accepts without
// blocking; called once at startup and again from Pump whenever the child's
// output fd goes readable (the two sides share one turn of the loop).
func (m *Manager) cgiWriteBody(c *Conn) {
	if c.CGIPipeIn == nil || len(c.CGIBody) == 0 {
		return
	}

	n, err := nbWrite(int(c.CGIPipeIn.Fd()), c.CGIBody)
	if n > 0 {
		c.CGIBody = c.CGIBody[n:]
	}
	if wouldBlock(err) {
		return
	}
	if len(c.CGIBody) == 0 || err != nil {
		_ = c.CGIPipeIn.Close()
		c.CGIPipeIn = nil
	}
}

// cgiOutTag tags a CGI child's stdout pipe fd in the oracle, distinguished
// from a listener (listenerTag) or a client connection (*Conn) by its
// dynamic type.
type cgiOutTag struct {
	conn *Conn
}

// handleCGIReadable drains one non-blocking read from a child's stdout
// pipe. EOF hands the accumulated output to the interposer and starts
// sending the finished response; a live child just keeps accumulating.
func (m *Manager) handleCGIReadable(c *Conn, now time.Time) {
	if c.CGIPipeIn != nil {
		m.cgiWriteBody(c)
	}

	buf := make([]byte, 8192)
	n, err := nbRead(c.CGIOutFd, buf)

	switch {
	case n > 0:
		c.CGIOut = append(c.CGIOut, buf[:n]...)
		return
	case wouldBlock(err):
		return
	default:
		m.finishCGI(c, now)
	}
}

// finishCGI reaps the child's pipe registration, interposes parsed headers
// onto the accumulated output (skipped for nph- scripts, whose bytes are
// already a complete HTTP response) and hands the result to sendSynthesized.
func (m *Manager) finishCGI(c *Conn, now time.Time) {
	m.reapCGI(c)

	body := c.CGIOut
	c.CGIOut = nil

	if c.NonParsedHeader {
		m.sendSynthesized(c, nil, body, now)
		return
	}

	var out bytes.Buffer
	if ierr := cgi.OutputInterposer(bytes.NewReader(body), &out); ierr != nil {
		m.respondError(c, int(httpcore.ErrInternal), now)
		return
	}

	m.sendSynthesized(c, nil, out.Bytes(), now)
}

// reapCGI tears down the CGI side-channel state: closes pipes, deregisters
// the oracle fd, cancels the escalation timers and releases the Supervisor
// slot. Safe to call more than once.
func (m *Manager) reapCGI(c *Conn) {
	if c.CGICancel != nil {
		c.CGICancel()
		c.CGICancel = nil
	}

	if c.CGIOutFd != 0 {
		_ = m.oracle.Del(c.CGIOutFd)
	}
	if c.CGIPipeOut != nil {
		_ = c.CGIPipeOut.Close()
		c.CGIPipeOut = nil
	}
	if c.CGIPipeIn != nil {
		_ = c.CGIPipeIn.Close()
		c.CGIPipeIn = nil
	}

	if c.Cmd != nil {
		go func(cmd *exec.Cmd) {
			_ = cmd.Wait()
		}(c.Cmd)
		c.Cmd = nil
		m.cgi.Release()
	}

	c.CGIOutFd = 0
	c.CGIBody = nil
}
