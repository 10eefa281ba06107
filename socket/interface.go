/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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
 */

// Package socket defines the shared contract implemented by socket/client
// and socket/server: a small Client interface plus the connection-state
// and error-filtering helpers both sides need.
package socket

import (
	"context"
)

// DefaultBufferSize is the read/write buffer size used when a caller does
// not configure one explicitly.
const DefaultBufferSize = 32 * 1024

// EOL is the line delimiter used by line-oriented socket writers (e.g. the
// syslog client aggregator).
const EOL = byte('\n')

// Client is a connection to a remote socket endpoint (TCP, UDP or unix).
// Connect is idempotent and re-dials if the underlying connection was
// closed or never established; Write/Close behave like their net.Conn
// counterparts.
type Client interface {
	// Connect establishes (or re-establishes) the underlying connection.
	Connect(ctx context.Context) error

	// Read reads from the underlying connection.
	Read(p []byte) (n int, err error)

	// Write writes to the underlying connection.
	Write(p []byte) (n int, err error)

	// Close releases the underlying connection, if any.
	Close() error
}

// HandlerFunc processes a single accepted connection.
type HandlerFunc func(c Context)

// Context is the per-connection handle passed to a HandlerFunc.
type Context interface {
	context.Context
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error
}

// ConnState describes a connection's position in its lifecycle, reported
// to a server's state-change callback.
type ConnState uint8

const (
	ConnectionDial ConnState = iota
	ConnectionNew
	ConnectionRead
	ConnectionCloseRead
	ConnectionHandler
	ConnectionWrite
	ConnectionCloseWrite
	ConnectionClose
)

// String returns a lowercase label for the state, or "unknown" for any
// out-of-range value.
func (c ConnState) String() string {
	switch c {
	case ConnectionDial:
		return "dial"
	case ConnectionNew:
		return "new"
	case ConnectionRead:
		return "read"
	case ConnectionCloseRead:
		return "close-read"
	case ConnectionHandler:
		return "handler"
	case ConnectionWrite:
		return "write"
	case ConnectionCloseWrite:
		return "close-write"
	case ConnectionClose:
		return "close"
	default:
		return "unknown"
	}
}

// ErrorFilter drops the bare "use of closed network connection" error
// signaling an expected teardown, so callers don't log noise on ordinary
// shutdown. A wrapped variant of that message (e.g. prefixed with the
// failing operation) is still considered a real error and returned as-is,
// as is any other error. nil is returned unchanged.
func ErrorFilter(err error) error {
	if err == nil {
		return nil
	}

	if err.Error() == "use of closed network connection" {
		return nil
	}

	return err
}
