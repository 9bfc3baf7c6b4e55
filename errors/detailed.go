package errors

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/google/uuid"
)

// compile time check for DetailedError interfaces.
var (
	_ ClassError = &DetailedError{}
)

// DetailedError is the class based error definition.
// Each instance has it's own trackable ID.
// It contains also a Class variable that might be comparable in logic.
type DetailedError struct {
	// ID is a unique error instance identification number.
	ID uuid.UUID
	// Classification defines the error classification.
	Classification error
	// Details contains the detailed information.
	Details string
	// Message is a message used as a string for the
	// golang error interface implementation.
	Message string
	// Operation is the operation name when the error occurred.
	Operation string
}

// NewDet creates DetailedError with given 'class' and message 'message'.
func NewDet(c error, message string) *DetailedError {
	err := newDetailed(c)
	err.Message = message
	return err
}

// NewDetf creates DetailedError instance with provided 'class' with formatted message.
func NewDetf(c error, format string, args ...interface{}) *DetailedError {
	err := newDetailed(c)
	err.Message = fmt.Sprintf(format, args...)
	return err
}

// WrapDet creates DetailedError that is classified by the 'err'.
func WrapDet(err error, message string) *DetailedError {
	e := newDetailed(err)
	e.Message = message
	return e
}

// WrapDetf creates DetailedError that is classified by the 'err' with formatted message.
func WrapDetf(err error, format string, args ...interface{}) *DetailedError {
	e := newDetailed(err)
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// Class implements ClassError.
func (e *DetailedError) Class() error {
	return e.Classification
}

// DetailedError implements error interface.
func (e *DetailedError) Error() string {
	return e.Message
}

// Unwrap returns error classification.
func (e *DetailedError) Unwrap() error {
	return e.Classification
}

// WithDetail sets error detail.
func (e *DetailedError) WithDetail(detail string) *DetailedError {
	e.Details = detail
	return e
}

// WithDetailf sets error formatted detail.
func (e *DetailedError) WithDetailf(format string, args ...interface{}) *DetailedError {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

// WithOperation overwrites the operation captured from the caller.
func (e *DetailedError) WithOperation(operation string) *DetailedError {
	e.Operation = operation
	return e
}

func newDetailed(c error) *DetailedError {
	err := &DetailedError{
		ID:             uuid.New(),
		Classification: c,
	}
	pc, _, _, ok := runtime.Caller(2)
	details := runtime.FuncForPC(pc)
	if ok && details != nil {
		file, line := details.FileLine(pc)
		_, singleFile := filepath.Split(file)
		err.Operation = details.Name() + "#" + singleFile + ":" + strconv.Itoa(line)
	}
	return err
}
