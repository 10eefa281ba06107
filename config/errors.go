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

package config

import (
	liberr "github.com/nabbar/thttpd-core/erro"
)

// Error codes for the config package, covering CoreConfig/ServerConfig/
// ThrottleRule validation.
const (
	// ErrorValidatorError indicates that a core or server config value failed validation.
	ErrorValidatorError liberr.CodeError = iota + liberr.MinPkgConfig

	// ErrorDocumentRootMissing indicates that a server config is missing its document root.
	ErrorDocumentRootMissing

	// ErrorListenEmpty indicates that a server config has no listen entry.
	ErrorListenEmpty

	// ErrorThrottlePattern indicates that a throttle rule is missing its glob pattern.
	ErrorThrottlePattern

	// ErrorThrottleRate indicates that a throttle rule has an invalid rate.
	ErrorThrottleRate
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = liberr.ExistInMapMessage(ErrorValidatorError)
	liberr.RegisterIdFctMessage(ErrorValidatorError, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return ""
	case ErrorValidatorError:
		return "config : invalid config"
	case ErrorDocumentRootMissing:
		return "config : document root is required"
	case ErrorListenEmpty:
		return "config : at least one listen entry is required"
	case ErrorThrottlePattern:
		return "config : throttle rule is missing a pattern"
	case ErrorThrottleRate:
		return "config : throttle rule has an invalid rate"
	}

	return liberr.NullMessage
}
