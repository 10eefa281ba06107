// Package erro provides the error type shared by every CORE component:
// a numeric CodeError (module-scoped, banded per component), an optional
// parent-error chain, and a captured allocation-site trace.
//
// Components whose failures are directly wire-visible (httpcore) use a
// CodeError that equals the HTTP status the failure will surface as, so
// httpcore.StatusFor(err) is a direct Error.Code() read. Every other
// component uses its own band from modules.go.
package erro

import (
	"errors"
	"fmt"
	"strings"
)

// FuncMap is called for each error in a Map traversal; returning false stops the walk.
type FuncMap func(e error) bool

// ReturnError receives the flattened (code, message, file, line) of one error node.
type ReturnError func(code int, msg string, file string, line int)

// Error extends the standard error with a code, a parent chain and a trace.
type Error interface {
	error

	IsCode(code CodeError) bool
	HasCode(code CodeError) bool
	GetCode() CodeError
	GetParentCode() []CodeError

	Is(e error) bool
	IsError(e error) bool
	HasError(err error) bool
	HasParent() bool
	GetParent(withMainError bool) []error
	Map(fct FuncMap) bool
	ContainsString(s string) bool

	Add(parent ...error)
	SetParent(parent ...error)

	Code() uint16
	CodeSlice() []uint16

	CodeError(pattern string) string
	CodeErrorSlice(pattern string) []string
	CodeErrorTrace(pattern string) string
	CodeErrorTraceSlice(pattern string) []string

	Error() string
	StringError() string
	StringErrorSlice() []string

	GetError() error
	GetErrorSlice() []error
	Unwrap() []error

	GetTrace() string
	GetTraceSlice() []string

	ReturnError(f ReturnError)
	ReturnParent(f ReturnError)
}

// Is reports whether e carries an Error payload.
func Is(e error) bool {
	var err Error
	return errors.As(e, &err)
}

// Get returns e's Error payload, or nil if it has none.
func Get(e error) Error {
	var err Error
	if errors.As(e, &err) {
		return err
	}
	return nil
}

// Has reports whether e or one of its parents carries the given code.
func Has(e error, code CodeError) bool {
	if err := Get(e); err == nil {
		return false
	} else {
		return err.HasCode(code)
	}
}

// ContainsString reports whether e's message, or any parent's, contains s.
func ContainsString(e error, s string) bool {
	if e == nil {
		return false
	} else if err := Get(e); err == nil {
		return strings.Contains(e.Error(), s)
	} else {
		return err.ContainsString(s)
	}
}

// IsCode reports whether e's own code (not parents) equals code.
func IsCode(e error, code CodeError) bool {
	if err := Get(e); err == nil {
		return false
	} else {
		return err.IsCode(code)
	}
}

// Make wraps a plain error into an Error, leaving an already-Error value untouched.
func Make(e error) Error {
	var err Error

	if e == nil {
		return nil
	} else if errors.As(e, &err) {
		return err
	}

	return &ers{
		c: 0,
		e: e.Error(),
		p: nil,
		t: getNilFrame(),
	}
}

// MakeIfError folds a list of errors into one Error, or nil if all are nil.
func MakeIfError(err ...error) Error {
	var e Error

	for _, p := range err {
		if p == nil {
			continue
		} else if e == nil {
			e = Make(p)
		} else {
			e.Add(p)
		}
	}

	return e
}

// AddOrNew appends errSub (and parent) to errMain, creating errMain as an Error if needed.
func AddOrNew(errMain, errSub error, parent ...error) Error {
	var e Error

	if errMain != nil {
		if e = Get(errMain); e == nil {
			e = New(0, errMain.Error())
		}
		e.Add(errSub)
		e.Add(parent...)
		return e
	} else if errSub != nil {
		return New(0, errSub.Error(), parent...)
	}

	return nil
}

// New builds an Error with the given code, message and parents, capturing the call site.
func New(code uint16, message string, parent ...error) Error {
	var p = make([]Error, 0)

	for _, e := range parent {
		if er := Make(e); er != nil {
			p = append(p, er)
		}
	}

	return &ers{
		c: code,
		e: message,
		p: p,
		t: getFrame(),
	}
}

// Newf is New with an fmt.Sprintf-formatted message.
func Newf(code uint16, pattern string, args ...any) Error {
	return &ers{
		c: code,
		e: fmt.Sprintf(pattern, args...),
		p: make([]Error, 0),
		t: getFrame(),
	}
}

// IfError returns nil when every parent is nil; otherwise an Error wrapping the non-nil ones.
func IfError(code uint16, message string, parent ...error) Error {
	p := make([]Error, 0)

	for _, e := range parent {
		if er := Make(e); er != nil {
			p = append(p, er)
		}
	}

	if len(p) < 1 {
		return nil
	}

	return &ers{
		c: code,
		e: message,
		p: p,
		t: getFrame(),
	}
}
