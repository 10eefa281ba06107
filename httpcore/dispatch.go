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
	"path/filepath"
	"strings"
	"time"
)

// Outcome is what Dispatch decided: either "serve this static file" (Mime
// set, IsCGI false), "hand off to the CGI supervisor" (IsCGI true), or a
// terminal status with no file behind it (redirect/error).
type Outcome struct {
	Status      int
	IsCGI       bool
	IsDirect    bool // true once headers+body (or just headers, for HEAD) are ready
	RedirectTo  string
	FilePath    string // absolute path to stat/map
	Info        os.FileInfo
	ContentType string
	Encoding    string
}

// DispatchOptions bundles the policy knobs response dispatch needs.
type DispatchOptions struct {
	CGIPattern string
	IndexNames []string
	HasDirCGI  bool
}

// Dispatch implements response dispatch: given the document root and a
// resolved path, decide whether the request is a redirect, a directory
// listing candidate, CGI, or a plain static file.
func Dispatch(opt DispatchOptions, root, expandedPath string, method Method) Outcome {
	abs := filepath.Join(root, expandedPath)

	info, err := os.Stat(abs)
	if err != nil {
		return Outcome{Status: int(ErrNotFound)}
	}

	if info.Mode()&0o004 == 0 && info.Mode()&0o001 == 0 {
		return Outcome{Status: int(ErrForbidden)}
	}

	if info.IsDir() {
		if !strings.HasSuffix(expandedPath, "/") {
			return Outcome{Status: 302, RedirectTo: "/" + expandedPath + "/"}
		}

		for _, name := range opt.IndexNames {
			cand := filepath.Join(abs, name)
			if ci, cerr := os.Stat(cand); cerr == nil && !ci.IsDir() {
				return Outcome{Status: 200, FilePath: cand, Info: ci, ContentType: MimeTypeFor(cand)}
			}
		}

		if opt.HasDirCGI {
			return Outcome{Status: 200, IsCGI: true, FilePath: abs, Info: info}
		}

		return Outcome{Status: int(ErrForbidden)}
	}

	if opt.CGIPattern != "" {
		if matched, _ := filepath.Match(opt.CGIPattern, expandedPath); matched && info.Mode()&0o111 != 0 {
			return Outcome{Status: 200, IsCGI: true, FilePath: abs, Info: info}
		}
	}

	if method != MethodGet && method != MethodHead {
		return Outcome{Status: int(ErrNotImplemented)}
	}

	return Outcome{Status: 200, FilePath: abs, Info: info, ContentType: MimeTypeFor(abs)}
}

// NotModified reports whether a conditional GET can be answered 304: the
// request's If-Modified-Since is at or after the resource's mtime
// (truncated to the second, matching HTTP-date precision).
func NotModified(ifModifiedSince, mtime time.Time) bool {
	if ifModifiedSince.IsZero() {
		return false
	}
	return !mtime.Truncate(time.Second).After(ifModifiedSince)
}
