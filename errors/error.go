package errors

import (
	"errors"
	"fmt"
)

// classError is a single node of the error classification tree. A class created with New
// is a root, a class created with Wrap is a child of the wrapped error. Classes are
// compared by identity, so errors.Is(err, ErrSomething) matches every error created
// from ErrSomething or any of its sub classes.
type classError struct {
	msg    string
	parent error
}

// Error implements error interface.
func (e *classError) Error() string {
	if e.parent == nil {
		return e.msg
	}
	return e.parent.Error() + ": " + e.msg
}

// Unwrap returns the parent classification.
func (e *classError) Unwrap() error {
	return e.parent
}

// New creates new root error classification with given 'msg'.
func New(msg string) error {
	return &classError{msg: msg}
}

// Newf creates new root error classification with formatted message.
func Newf(format string, args ...interface{}) error {
	return &classError{msg: fmt.Sprintf(format, args...)}
}

// Wrap creates new error that is a sub classification of the 'err'.
func Wrap(err error, msg string) error {
	return &classError{msg: msg, parent: err}
}

// Wrapf creates new error that is a sub classification of the 'err' with formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return &classError{msg: fmt.Sprintf(format, args...), parent: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

var (
	// ErrInternal is the root classification for internal errors.
	ErrInternal = New("internal")
	// ErrInvalidArgument is the root classification for invalid input arguments.
	ErrInvalidArgument = New("invalid argument")
)
