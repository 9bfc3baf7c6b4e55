package mapping

import (
	"github.com/neuronlabs/neuron-odata/errors"
)

var (
	// ErrMapping is the major error classification for the mapping package.
	ErrMapping = errors.New("mapping")

	// ErrModel is the minor error classification related to the model registry.
	ErrModel = errors.Wrap(ErrMapping, "model")
	// ErrTypeAlreadyRegistered is the error when the type with given name is already registered.
	ErrTypeAlreadyRegistered = errors.Wrap(ErrModel, "type already registered")
	// ErrTypeNotFound is the error when the type is not registered within the model.
	ErrTypeNotFound = errors.Wrap(ErrModel, "type not found")
	// ErrNavigationSource is the error classification for invalid navigation sources.
	ErrNavigationSource = errors.Wrap(ErrModel, "navigation source")

	// ErrType is the minor error classification for the structural type definitions.
	ErrType = errors.Wrap(ErrMapping, "type")
	// ErrDuplicateProperty is the error when the property name is already defined within the type.
	ErrDuplicateProperty = errors.Wrap(ErrType, "duplicate property")
	// ErrInvalidKey is the error when the key definition is not valid.
	ErrInvalidKey = errors.Wrap(ErrType, "invalid key")

	// ErrInvalidModelField is the error classification for invalid go struct field.
	ErrInvalidModelField = errors.Wrap(ErrMapping, "invalid field")
	// ErrNamingConvention is an error classification with errors related with naming convention.
	ErrNamingConvention = errors.Wrap(ErrMapping, "naming convention")
)
