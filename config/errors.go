package config

import (
	"github.com/neuronlabs/neuron-odata/errors"
)

var (
	// ErrConfig is the root error classification for the config package.
	ErrConfig = errors.New("config")
	// ErrInvalidValue is the error classification for invalid config values.
	ErrInvalidValue = errors.Wrap(ErrConfig, "invalid value")
	// ErrRead is the error classification for config read failures.
	ErrRead = errors.Wrap(ErrConfig, "read")
)
