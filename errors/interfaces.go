package errors

// ClassError is the interface used for all errors that belong to an error classification.
type ClassError interface {
	error
	// Class gets current error classification.
	Class() error
}
