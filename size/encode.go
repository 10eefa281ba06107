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

package size

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// MarshalJSON returns the JSON encoding of s: its String form, quoted.
func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a JSON-encoded Size, given as a quoted human-readable
// string.
func (s *Size) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}

	v, err := Parse(str)
	if err != nil {
		return err
	}

	*s = v
	return nil
}

// MarshalYAML returns the YAML encoding of s: its String form.
func (s Size) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML parses a YAML-encoded Size.
func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	v, err := Parse(value.Value)
	if err != nil {
		return err
	}

	*s = v
	return nil
}

// MarshalTOML returns the TOML encoding of s, equivalent to MarshalJSON.
func (s Size) MarshalTOML() ([]byte, error) {
	return s.MarshalJSON()
}

// UnmarshalTOML parses a TOML-encoded Size, given as either a raw byte slice
// or a string.
func (s *Size) UnmarshalTOML(i interface{}) error {
	if b, ok := i.([]byte); ok {
		return s.UnmarshalText(b)
	}

	if str, ok := i.(string); ok {
		v, err := Parse(str)
		if err != nil {
			return err
		}

		*s = v
		return nil
	}

	//nolint #goerr113
	return fmt.Errorf("size: value not in valid format")
}

// MarshalText returns the text encoding of s: its String form.
func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a text-encoded Size.
func (s *Size) UnmarshalText(b []byte) error {
	v, err := ParseByte(b)
	if err != nil {
		return err
	}

	*s = v
	return nil
}

// MarshalBinary returns the binary encoding of s, equivalent to MarshalText.
func (s Size) MarshalBinary() ([]byte, error) {
	return s.MarshalText()
}

// UnmarshalBinary parses a binary-encoded Size, equivalent to UnmarshalText.
func (s *Size) UnmarshalBinary(b []byte) error {
	return s.UnmarshalText(b)
}

// MarshalCBOR returns the CBOR encoding of s: its String form.
func (s Size) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(s.String())
}

// UnmarshalCBOR parses a CBOR-encoded Size, given as a CBOR text string.
func (s *Size) UnmarshalCBOR(b []byte) error {
	var str string
	if err := cbor.Unmarshal(b, &str); err != nil {
		return err
	}

	v, err := Parse(str)
	if err != nil {
		return err
	}

	*s = v
	return nil
}
