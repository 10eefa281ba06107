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

package connmgr

import liberr "github.com/nabbar/thttpd-core/erro"

const (
	ErrorParamEmpty liberr.CodeError = iota + liberr.MinPkgConnMgr
	ErrorPoolExhausted
	ErrorNotReading
	ErrorNotSending
	ErrorRawFd
	ErrorThrottleFile
	ErrorThrottleLine
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = liberr.ExistInMapMessage(ErrorParamEmpty)
	liberr.RegisterIdFctMessage(ErrorParamEmpty, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return ""
	case ErrorParamEmpty:
		return "given parameters is empty"
	case ErrorPoolExhausted:
		return "connmgr : no free connection slot available"
	case ErrorNotReading:
		return "connmgr : connection is not in the reading state"
	case ErrorNotSending:
		return "connmgr : connection is not in the sending state"
	case ErrorRawFd:
		return "connmgr : could not obtain the raw file descriptor"
	case ErrorThrottleFile:
		return "connmgr : could not read throttle file"
	case ErrorThrottleLine:
		return "connmgr : malformed throttle file line"
	}

	return liberr.NullMessage
}
