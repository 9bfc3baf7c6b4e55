// Package errors provides lightweight error handling and classification primitives.
//
// Errors are classified in a tree. A root class is created with New and sub classes with
// Wrap. Detailed errors created with NewDet or WrapDet carry a unique ID, the operation
// where they were created and a human readable detail, while still matching their
// classification with Is.
package errors
