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

import liberr "github.com/nabbar/thttpd-core/erro"

// HTTP-visible failures carry a CodeError equal to the status they will
// surface as, so StatusFor is a direct Error.Code() read rather than a
// translation table. These aliases just give call sites a name instead of
// a bare constant.
const (
	ErrBadRequest         = liberr.StatusBadRequest
	ErrUnauthorized       = liberr.StatusUnauthorized
	ErrForbidden          = liberr.StatusForbidden
	ErrNotFound           = liberr.StatusNotFound
	ErrMethodNotAllowed   = liberr.StatusMethodNotAllowed
	ErrInternal           = liberr.StatusInternalServerError
	ErrNotImplemented     = liberr.StatusNotImplemented
	ErrServiceUnavailable = liberr.StatusServiceUnavailable
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = liberr.ExistInMapMessage(ErrBadRequest)
	liberr.RegisterIdFctMessage(ErrBadRequest, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return ""
	case ErrBadRequest:
		return "Bad Request"
	case ErrUnauthorized:
		return "Unauthorized"
	case ErrForbidden:
		return "Forbidden"
	case ErrNotFound:
		return "Not Found"
	case ErrMethodNotAllowed:
		return "Method Not Allowed"
	case ErrInternal:
		return "Internal Server Error"
	case ErrNotImplemented:
		return "Not Implemented"
	case ErrServiceUnavailable:
		return "Service Unavailable"
	}

	return liberr.NullMessage
}

// StatusFor reads the HTTP status an httpcore-originated error should
// surface as. Errors from other packages, or nil, report 0.
func StatusFor(err liberr.Error) int {
	if err == nil {
		return 0
	}
	return int(err.GetCode())
}
