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

// Package client builds a socket.Client for a given protocol/address pair.
// Connections are dialed lazily: New only validates the configuration, the
// first Connect (or Write, which connects on demand) performs the dial.
package client

import (
	"context"
	"crypto/tls"
	"net"
	"sync"

	libatm "github.com/nabbar/thttpd-core/atomic"
	liblog "github.com/nabbar/thttpd-core/logger"
	loglvl "github.com/nabbar/thttpd-core/logger/level"
	libptc "github.com/nabbar/thttpd-core/network/protocol"
	libsck "github.com/nabbar/thttpd-core/socket"
	sckcfg "github.com/nabbar/thttpd-core/socket/config"
)

type client struct {
	net libptc.NetworkProtocol
	adr string
	tls sckcfg.TLSClient
	log liblog.FuncLog

	mu   sync.Mutex
	conn libatm.Value[net.Conn]
}

// New validates cfg and returns a Client for it. log may be nil; when set
// it receives the current logger instance for dial/connect failures.
func New(cfg sckcfg.Client, log liblog.FuncLog) (libsck.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &client{
		net: cfg.Network,
		adr: cfg.Address,
		tls: cfg.TLS,
		log: log,
	}
	c.conn = libatm.NewValue[net.Conn]()

	return c, nil
}

func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur := c.conn.Load(); cur != nil {
		_ = cur.Close()
	}

	var (
		d   net.Dialer
		cn  net.Conn
		err error
	)

	if ctx == nil {
		ctx = context.Background()
	}

	cn, err = d.DialContext(ctx, c.net.String(), c.adr)
	if err != nil {
		c.logError("connect", err)
		return err
	}

	if c.tls.Enabled {
		cfg := c.tls.Config
		cn = tls.Client(cn, cfg.New().TLS(c.tls.ServerName))
	}

	c.conn.Store(cn)
	return nil
}

func (c *client) Read(p []byte) (int, error) {
	cn := c.conn.Load()
	if cn == nil {
		return 0, net.ErrClosed
	}
	n, err := cn.Read(p)
	return n, libsck.ErrorFilter(err)
}

func (c *client) Write(p []byte) (int, error) {
	if c.conn.Load() == nil {
		if err := c.Connect(context.Background()); err != nil {
			return 0, err
		}
	}

	cn := c.conn.Load()
	n, err := cn.Write(p)
	if err != nil {
		c.logError("write", err)
	}
	return n, libsck.ErrorFilter(err)
}

func (c *client) Close() error {
	cn := c.conn.Swap(nil)
	if cn == nil {
		return nil
	}
	return libsck.ErrorFilter(cn.Close())
}

func (c *client) logError(op string, err error) {
	if c.log == nil {
		return
	}
	if l := c.log(); l != nil {
		l.Entry(loglvl.ErrorLevel, "socket/client %s %s://%s: %s", op, c.net.String(), c.adr, err.Error()).Log()
	}
}

