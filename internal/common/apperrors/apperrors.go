// Package apperrors provides chained application errors. An Error created
// from another Error with New, Msg, Err or MsgErr wraps its parent, so
// errors.Is matches every ancestor in the chain as well as any wrapped cause.
package apperrors

import (
	"errors"
	"strings"
)

type Error interface {
	error
	Unwrap() []error
	// New returns a child error with the given message.
	New(msg string) Error
	// Msg is an alias of New, used when annotating an error at a call site.
	Msg(msg string) Error
	// Err returns a child error with the same message that also wraps err.
	Err(err ...error) Error
	// MsgErr returns a child error with the given message that also wraps err.
	MsgErr(msg string, err ...error) Error
	SetStatusCode(code int) Error
	StatusCode() int
	SetExpandError(expand bool) Error
	ExpandError() bool
	// ErrorAll returns the message followed by the messages of all wrapped causes.
	ErrorAll() string
}

type appError struct {
	msg        string
	parent     *appError
	causes     []error
	statusCode int
	expand     bool
}

var _ Error = (*appError)(nil)

func New(msg string) Error {
	return &appError{msg: msg}
}

func (e *appError) Error() string {
	if e.expand && len(e.causes) > 0 {
		return e.ErrorAll()
	}
	return e.msg
}

func (e *appError) Unwrap() []error {
	errs := make([]error, 0, len(e.causes)+1)
	if e.parent != nil {
		errs = append(errs, e.parent)
	}
	return append(errs, e.causes...)
}

func (e *appError) New(msg string) Error {
	return &appError{msg: msg, parent: e, expand: e.expand}
}

func (e *appError) Msg(msg string) Error {
	return e.New(msg)
}

func (e *appError) Err(err ...error) Error {
	return &appError{msg: e.msg, parent: e, causes: compact(err), expand: e.expand}
}

func (e *appError) MsgErr(msg string, err ...error) Error {
	return &appError{msg: msg, parent: e, causes: compact(err), expand: e.expand}
}

func (e *appError) SetStatusCode(code int) Error {
	e.statusCode = code
	return e
}

// StatusCode returns the closest status code set on the chain, or 0.
func (e *appError) StatusCode() int {
	for p := e; p != nil; p = p.parent {
		if p.statusCode != 0 {
			return p.statusCode
		}
	}
	return 0
}

func (e *appError) SetExpandError(expand bool) Error {
	e.expand = expand
	return e
}

func (e *appError) ExpandError() bool {
	return e.expand
}

func (e *appError) ErrorAll() string {
	var sb strings.Builder
	sb.WriteString(e.msg)
	for _, c := range e.causes {
		sb.WriteString(": ")
		var ae Error
		if errors.As(c, &ae) {
			sb.WriteString(ae.ErrorAll())
		} else {
			sb.WriteString(c.Error())
		}
	}
	return sb.String()
}

func compact(errs []error) []error {
	out := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
