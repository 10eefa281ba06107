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
	"path"
	"strconv"

	"github.com/nabbar/thttpd-core/httpcore"
)

// EnvOptions carries the server-identity values a request doesn't know
// about on its own.
type EnvOptions struct {
	ServerSoftware string
	ServerName     string
	ServerPort     uint16
	RemoteAddr     string
	DocumentRoot   string
}

// BuildEnvp assembles the CGI/1.1 environment for one invocation. scriptName
// is the URL path of the script itself (without PathInfo).
func BuildEnvp(req *httpcore.Request, opt EnvOptions, scriptName string) []string {
	protocol := req.Protocol
	if protocol == "" {
		protocol = "HTTP/0.9"
	}

	env := []string{
		"GATEWAY_INTERFACE=CGI/1.1",
		"SERVER_SOFTWARE=" + opt.ServerSoftware,
		"SERVER_NAME=" + opt.ServerName,
		"SERVER_PORT=" + strconv.Itoa(int(opt.ServerPort)),
		"SERVER_PROTOCOL=" + protocol,
		"REQUEST_METHOD=" + req.Method.String(),
		"SCRIPT_NAME=" + scriptName,
		"PATH_INFO=" + req.PathInfo,
		"QUERY_STRING=" + req.Query,
		"REMOTE_ADDR=" + opt.RemoteAddr,
	}

	if req.PathInfo != "" {
		env = append(env, "PATH_TRANSLATED="+path.Join(opt.DocumentRoot, req.PathInfo))
	}
	if req.ContentType != "" {
		env = append(env, "CONTENT_TYPE="+req.ContentType)
	}
	if req.ContentLength > 0 {
		env = append(env, "CONTENT_LENGTH="+strconv.FormatInt(req.ContentLength, 10))
	}
	if req.Authorization != "" {
		env = append(env, "AUTH_TYPE=Basic")
	}
	if req.UserAgent != "" {
		env = append(env, "HTTP_USER_AGENT="+req.UserAgent)
	}
	if req.Accept != "" {
		env = append(env, "HTTP_ACCEPT="+req.Accept)
	}
	if req.AcceptEncoding != "" {
		env = append(env, "HTTP_ACCEPT_ENCODING="+req.AcceptEncoding)
	}
	if req.Referrer != "" {
		env = append(env, "HTTP_REFERER="+req.Referrer)
	}
	if req.Cookie != "" {
		env = append(env, "HTTP_COOKIE="+req.Cookie)
	}
	if req.Host != "" {
		env = append(env, "HTTP_HOST="+req.Host)
	}

	return env
}
