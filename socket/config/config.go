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

// Package config describes the wire-level configuration accepted by
// socket/client and socket/server: which protocol and address to use, and
// the optional TLS and unix-file-permission settings layered on top.
package config

import (
	"errors"
	"net"

	libtls "github.com/nabbar/thttpd-core/certificates"
	libprm "github.com/nabbar/thttpd-core/file/perm"
	libptc "github.com/nabbar/thttpd-core/network/protocol"
)

// MaxGID is the highest group id GroupPerm accepts; -1 means "inherit the
// current process's group" and is always valid.
const MaxGID = 32767

var (
	ErrInvalidProtocol  = errors.New("socket/config: invalid protocol")
	ErrInvalidTLSConfig = errors.New("socket/config: invalid TLS config")
	ErrInvalidGroup     = errors.New("socket/config: invalid unix group")
)

// TLSClient configures the client-side TLS handshake.
type TLSClient struct {
	Enabled    bool
	ServerName string
	Config     libtls.Config
}

// TLSServer configures the server-side TLS handshake.
type TLSServer struct {
	Enabled bool
	Config  libtls.Config
}

// Client is the configuration for a single outbound socket connection.
type Client struct {
	Network libptc.NetworkProtocol
	Address string
	TLS     TLSClient
}

// Validate checks that Network is a connectable protocol, Address resolves
// for it, and the TLS block (if enabled) is usable.
func (c Client) Validate() error {
	if !isKnownProtocol(c.Network) {
		return ErrInvalidProtocol
	}

	if err := validateAddress(c.Network, c.Address); err != nil {
		return err
	}

	if c.TLS.Enabled && c.TLS.ServerName == "" {
		return ErrInvalidTLSConfig
	}

	return nil
}

// Server is the configuration for a single listening socket.
type Server struct {
	Network   libptc.NetworkProtocol
	Address   string
	PermFile  libprm.Perm
	GroupPerm int32
	TLS       TLSServer
}

// Validate checks that Network is a listenable protocol, Address resolves
// for it, and GroupPerm is either -1 (inherit) or a valid group id.
func (s Server) Validate() error {
	if !isKnownProtocol(s.Network) {
		return ErrInvalidProtocol
	}

	if err := validateAddress(s.Network, s.Address); err != nil {
		return err
	}

	if s.GroupPerm < -1 || s.GroupPerm > MaxGID {
		return ErrInvalidGroup
	}

	return nil
}

func isKnownProtocol(p libptc.NetworkProtocol) bool {
	return p.String() != ""
}

func validateAddress(p libptc.NetworkProtocol, address string) error {
	switch {
	case p.IsTCP():
		_, err := net.ResolveTCPAddr(p.String(), address)
		return err
	case p.IsUDP():
		_, err := net.ResolveUDPAddr(p.String(), address)
		return err
	case p.IsUnix():
		_, err := net.ResolveUnixAddr(p.String(), address)
		return err
	default:
		return nil
	}
}
