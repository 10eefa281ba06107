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

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON renders n as a quoted protocol name.
func (n NetworkProtocol) MarshalJSON() ([]byte, error) {
	return []byte(`"` + n.String() + `"`), nil
}

// UnmarshalJSON parses a quoted protocol name. Unrecognized input sets
// NetworkEmpty without error.
func (n *NetworkProtocol) UnmarshalJSON(data []byte) error {
	*n = Parse(string(data))
	return nil
}

// MarshalYAML renders n as a plain YAML scalar string.
func (n NetworkProtocol) MarshalYAML() (interface{}, error) {
	return n.String(), nil
}

// UnmarshalYAML parses a YAML scalar node as a protocol name.
func (n *NetworkProtocol) UnmarshalYAML(value *yaml.Node) error {
	*n = Parse(value.Value)
	return nil
}

// MarshalTOML renders n as a bare protocol name.
func (n NetworkProtocol) MarshalTOML() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalTOML accepts either a string or a []byte protocol name.
func (n *NetworkProtocol) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case []byte:
		*n = Parse(string(v))
		return nil
	case string:
		*n = Parse(v)
		return nil
	default:
		return fmt.Errorf("protocol: value not in valid format")
	}
}

// MarshalText renders n as a bare protocol name.
func (n NetworkProtocol) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText parses a bare protocol name.
func (n *NetworkProtocol) UnmarshalText(data []byte) error {
	*n = Parse(string(data))
	return nil
}

// MarshalCBOR renders n as its bare protocol name, matching MarshalText:
// the field is small and enumerable enough that a tagged CBOR text item
// brings no benefit over the plain name other codecs already use.
func (n NetworkProtocol) MarshalCBOR() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalCBOR parses a bare protocol name.
func (n *NetworkProtocol) UnmarshalCBOR(data []byte) error {
	*n = Parse(string(data))
	return nil
}
