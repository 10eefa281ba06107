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

package cgi

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	liberr "github.com/nabbar/thttpd-core/erro"
)

// ExecOptions wires one child invocation.
type ExecOptions struct {
	ScriptPath string
	Argv       []string
	Envp       []string
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

// IsNonParsedHeader reports whether the script name signals a non-parsed-
// header response: the "nph-" prefix, checked against the base name only.
func IsNonParsedHeader(scriptPath string) bool {
	return strings.HasPrefix(filepath.Base(scriptPath), "nph-")
}

// Start launches the CGI child with stdio wired per opt, chdir'd to the
// script's own directory. The caller owns Wait and any signal delivery.
func Start(opt ExecOptions) (*exec.Cmd, liberr.Error) {
	info, err := os.Stat(opt.ScriptPath)
	if err != nil || info.IsDir() {
		return nil, ErrorScriptNotFound.Error(err)
	}

	var args []string
	if len(opt.Argv) > 1 {
		args = opt.Argv[1:]
	}

	cmd := exec.Command(opt.ScriptPath, args...)
	cmd.Env = opt.Envp
	cmd.Dir = filepath.Dir(opt.ScriptPath)
	cmd.Stdin = opt.Stdin
	cmd.Stdout = opt.Stdout
	cmd.Stderr = opt.Stderr

	if err = cmd.Start(); err != nil {
		return nil, ErrorExecFailed.Error(err)
	}

	return cmd, nil
}
