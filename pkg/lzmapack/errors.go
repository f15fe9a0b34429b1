package lzmapack

import (
	"github.com/pkg/errors"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	ErrOpen          = errors.New("open failed")
	ErrCodecInit     = errors.New("codec initialization failed")
	ErrRead          = errors.New("read failed")
	ErrWrite         = errors.New("write failed")
	ErrEmptyOutput   = errors.New("codec produced no output")
	ErrSizeMismatch  = errors.New("input size does not match declared size")
	ErrInvalidHeader = errors.New("invalid header")
)

// Error carries the kind of a failure together with the operation that
// failed and the underlying cause, if any.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func newError(kind error, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

func (e *Error) Error() string {
	msg := "lzmapack: " + e.Op + ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrRead) and friends work for wrapped errors.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}
