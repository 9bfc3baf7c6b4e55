package jsontoken

import (
	"github.com/neuronlabs/neuron-odata/errors"
)

var (
	// ErrToken is the major error classification for the json token writer.
	ErrToken = errors.New("json token")
	// ErrInvalidToken is the error when the token is not allowed at current writer position.
	ErrInvalidToken = errors.Wrap(ErrToken, "invalid token")
	// ErrValue is the error when the value could not be encoded.
	ErrValue = errors.Wrap(ErrToken, "value")
)
