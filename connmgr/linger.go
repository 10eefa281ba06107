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

import "time"

// lingerDrainChunk bounds one non-blocking drain attempt while a connection
// sits in LINGERING: after sending the response, a client may still push a
// pipelined request or trailing bytes that must be read and discarded so
// the TCP stack doesn't reset the connection out from under a still-
// flushing send buffer.
const lingerDrainChunk = 4096

// handleLingerReadable discards whatever a client sends after its response
// is complete, until it closes its end or LingerTimeout expires (the latter
// fires onLingerFire, not this function).
func (m *Manager) handleLingerReadable(c *Conn, now time.Time) {
	buf := make([]byte, lingerDrainChunk)

	for {
		n, err := nbRead(c.Fd, buf)
		switch {
		case n > 0:
			continue
		case wouldBlock(err):
			return
		default:
			m.closeConn(c)
			return
		}
	}
}
