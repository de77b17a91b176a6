package profile

import (
	"errors"
	"strings"
)

// Error kinds. Test with errors.Is.
var (
	ErrConfig          = errors.New("config error")
	ErrValidation      = errors.New("validation error")
	ErrRequestBuild    = errors.New("request build error")
	ErrSerialization   = errors.New("serialization error")
	ErrTransport       = errors.New("transport error")
	ErrResponseParse   = errors.New("response parse error")
	ErrProfileNotFound = errors.New("profile not found")
)

// Side names used in error context.
const (
	Req1 = "req1"
	Req2 = "req2"
)

// Error carries an error kind plus the profile name and request side it
// occurred on.
type Error struct {
	Kind    error
	Profile string
	Side    string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Profile != "" {
		b.WriteString("profile \"")
		b.WriteString(e.Profile)
		b.WriteString("\": ")
	}
	if e.Side != "" {
		b.WriteString(e.Side)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// wrap returns err unchanged when it already carries a kind.
func wrap(kind, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return newError(kind, err)
}

// Annotate fills in the profile name and side of err when they are not yet
// set. Errors without a kind are reported as transport errors, the only kind
// produced outside this package.
func Annotate(err error, profile, side string) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if !errors.As(err, &pe) {
		return &Error{Kind: ErrTransport, Profile: profile, Side: side, Err: err}
	}
	cp := *pe
	if cp.Profile == "" {
		cp.Profile = profile
	}
	if cp.Side == "" {
		cp.Side = side
	}
	return &cp
}

// KindOf returns the kind of err, or nil if err carries none.
func KindOf(err error) error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return nil
}
