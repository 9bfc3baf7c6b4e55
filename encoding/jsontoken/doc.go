// Package jsontoken implements a streaming JSON token writer built on the easyjson buffer.
// The writer keeps track of the object and array nesting so that the callers only emit
// names, values and structural tokens while the separators are inserted automatically.
package jsontoken
