package errors

// IsClass checks if given error is a ClassError of exactly given 'class'.
// Use Is to match whole classification subtrees.
func IsClass(err error, class error) bool {
	classError, ok := err.(ClassError)
	if !ok {
		return false
	}
	return classError.Class() == class
}
