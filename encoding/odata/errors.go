package odata

import (
	"github.com/neuronlabs/neuron-odata/errors"
)

var (
	// ErrWriter is the major error classification for the odata payload writer.
	ErrWriter = errors.New("odata writer")

	// ErrState is the classification for the calls that violates the writer call grammar.
	ErrState = errors.Wrap(ErrWriter, "state violation")
	// ErrEmptyStack is the error when the scope stack is empty.
	ErrEmptyStack = errors.Wrap(ErrState, "empty scope stack")
	// ErrScopeKind is the error when the current scope is of unexpected kind.
	ErrScopeKind = errors.Wrap(ErrState, "unexpected scope kind")
	// ErrNotCollectionRelationship is the error when the record set is written for the single valued relationship.
	ErrNotCollectionRelationship = errors.Wrap(ErrState, "not a collection relationship")
	// ErrDeferredLinkInRequest is the error when the relationship without content is written in a request.
	ErrDeferredLinkInRequest = errors.Wrap(ErrState, "deferred link in request")
	// ErrUnknownCardinality is the error when the relationship cardinality is unknown in a request.
	ErrUnknownCardinality = errors.Wrap(ErrState, "unknown relationship cardinality")
	// ErrEntityReferenceLinkAfterRecordSetInRequest is the error when the reference link is written after a record set
	// within the same relationship.
	ErrEntityReferenceLinkAfterRecordSetInRequest = errors.Wrap(ErrState, "entity reference link after record set in request")
	// ErrReferenceLinkInResponse is the error when the reference link is written in a response.
	ErrReferenceLinkInResponse = errors.Wrap(ErrState, "reference link in response")
	// ErrStreamPropertyInRequest is the error when the stream property is written in a request.
	ErrStreamPropertyInRequest = errors.Wrap(ErrState, "stream property in request")
	// ErrWriterPoisoned is the error returned by every call after the first failure.
	ErrWriterPoisoned = errors.Wrap(ErrState, "writer poisoned")

	// ErrDoubleWrite is the error when the write-once annotation or metadata property is written twice.
	ErrDoubleWrite = errors.Wrap(ErrWriter, "double write")

	// ErrUnsupportedAnnotation is the error when the annotation is not allowed at given position.
	ErrUnsupportedAnnotation = errors.Wrap(ErrWriter, "unsupported annotation")
	// ErrExpandedSetMetadataNotAllowed is the error when the expanded record set contains delta link or instance annotations.
	ErrExpandedSetMetadataNotAllowed = errors.Wrap(ErrUnsupportedAnnotation, "expanded record set metadata not allowed")

	// ErrDuplicatePropertyName is the error when the property name is written twice within a single record.
	ErrDuplicatePropertyName = errors.Wrap(ErrWriter, "duplicate property name")

	// ErrInvalidItem is the error when the payload item is not valid.
	ErrInvalidItem = errors.Wrap(errors.ErrInvalidArgument, "odata item")
	// ErrTransport is the error classification for the failures of the underlying output.
	ErrTransport = errors.Wrap(ErrWriter, "transport")
)
