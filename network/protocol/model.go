/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package protocol

// NetworkProtocol identifies a listener's transport and address family.
// The zero value, NetworkEmpty, marks an unset or unrecognized protocol.
type NetworkProtocol uint8

const (
	NetworkEmpty NetworkProtocol = iota
	NetworkUnix
	NetworkTCP
	NetworkTCP4
	NetworkTCP6
	NetworkUDP
	NetworkUDP4
	NetworkUDP6
	NetworkIP
	NetworkIP4
	NetworkIP6
	NetworkUnixGram
)

// String returns the protocol's name as accepted by net.Dial/net.Listen, or
// "" for NetworkEmpty and any out-of-range value.
func (n NetworkProtocol) String() string {
	switch n {
	case NetworkUnix:
		return "unix"
	case NetworkTCP:
		return "tcp"
	case NetworkTCP4:
		return "tcp4"
	case NetworkTCP6:
		return "tcp6"
	case NetworkUDP:
		return "udp"
	case NetworkUDP4:
		return "udp4"
	case NetworkUDP6:
		return "udp6"
	case NetworkIP:
		return "ip"
	case NetworkIP4:
		return "ip4"
	case NetworkIP6:
		return "ip6"
	case NetworkUnixGram:
		return "unixgram"
	default:
		return ""
	}
}

// Code is an alias of String, kept for call sites that read as configuration
// codes rather than network names.
func (n NetworkProtocol) Code() string {
	return n.String()
}

// Int returns the protocol's ordinal, or 0 for NetworkEmpty and any
// out-of-range value.
func (n NetworkProtocol) Int() int {
	if n < NetworkUnix || n > NetworkUnixGram {
		return 0
	}
	return int(n)
}

// Int64 is Int as an int64.
func (n NetworkProtocol) Int64() int64 {
	return int64(n.Int())
}

// IsTCP reports whether n is one of the TCP variants.
func (n NetworkProtocol) IsTCP() bool {
	switch n {
	case NetworkTCP, NetworkTCP4, NetworkTCP6:
		return true
	default:
		return false
	}
}

// IsUDP reports whether n is one of the UDP variants.
func (n NetworkProtocol) IsUDP() bool {
	switch n {
	case NetworkUDP, NetworkUDP4, NetworkUDP6:
		return true
	default:
		return false
	}
}

// IsUnix reports whether n is a unix socket variant (stream or datagram).
func (n NetworkProtocol) IsUnix() bool {
	switch n {
	case NetworkUnix, NetworkUnixGram:
		return true
	default:
		return false
	}
}

// IsIP reports whether n is a raw IP variant.
func (n NetworkProtocol) IsIP() bool {
	switch n {
	case NetworkIP, NetworkIP4, NetworkIP6:
		return true
	default:
		return false
	}
}

// Uint is Int as a uint.
func (n NetworkProtocol) Uint() uint {
	return uint(n.Int())
}

// Uint64 is Int as a uint64.
func (n NetworkProtocol) Uint64() uint64 {
	return uint64(n.Int())
}
