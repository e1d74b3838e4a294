package translator

import (
	"errors"
	"fmt"
)

// Error is returned by every engine when the translation itself fails.
// Its message is the underlying cause, unprefixed, so callers can show it as is.
type Error struct {
	Engine string
	Err    error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(engine string, err error) *Error {
	return &Error{Engine: engine, Err: err}
}

func errorf(engine, format string, args ...any) *Error {
	return &Error{Engine: engine, Err: fmt.Errorf(format, args...)}
}

// AsError reports whether err carries a translation failure and returns it.
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
