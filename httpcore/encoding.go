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
	"os"
	"strings"
)

// EncodingChoice is what ResolveEncoding decided to serve.
type EncodingChoice struct {
	Path     string // the file to actually open
	Encoding string // Content-Encoding value, empty if none
}

// ResolveEncoding implements the ".gz companion" negotiation: given the
// path the resolver produced and a stat function, it looks for a
// "<path>.gz" sibling and serves it in place of the original when the
// client's Accept-Encoding advertises gzip support; otherwise it falls
// back to the uncompressed file.
func ResolveEncoding(statPath string, acceptEncoding string, stat func(string) (os.FileInfo, error)) (EncodingChoice, os.FileInfo) {
	if !acceptsGzip(acceptEncoding) {
		info, _ := stat(statPath)
		return EncodingChoice{Path: statPath}, info
	}

	gz := statPath + ".gz"
	if info, err := stat(gz); err == nil {
		return EncodingChoice{Path: gz, Encoding: "gzip"}, info
	}

	info, _ := stat(statPath)
	return EncodingChoice{Path: statPath}, info
}

func acceptsGzip(acceptEncoding string) bool {
	for _, part := range strings.Split(acceptEncoding, ",") {
		tok := strings.TrimSpace(part)
		if semi := strings.IndexByte(tok, ';'); semi >= 0 {
			tok = tok[:semi]
		}
		if strings.EqualFold(tok, "gzip") {
			return true
		}
	}
	return false
}
