package odata

import (
	"github.com/neuronlabs/neuron-odata/mapping"
)

// Record is a single structured value written as a JSON object.
// The optional metadata values are absent when empty.
type Record struct {
	// TypeName is the namespace qualified name of the record type.
	TypeName string
	// ID is the record identifier written as the '@odata.id'.
	ID string
	// ETag is the record entity tag.
	ETag string
	// EditLink is the explicitly set record edit link.
	EditLink string
	// ReadLink is the explicitly set record read link.
	ReadLink string
	// Media is the default stream of the media entity. It might be changed between StartRecord and EndRecord.
	Media *StreamReference
	// Properties are the structural property values written in given order.
	Properties []*Property
	// InstanceAnnotations are the custom annotations of the record.
	InstanceAnnotations []*InstanceAnnotation
	// Actions are the actions bound to the record.
	Actions []*Operation
	// Functions are the functions bound to the record.
	Functions []*Operation
	// Removed marks the record as removed within the delta payload.
	Removed *RemovedReason
	// SerializationInfo is used to compute the metadata when no model is available.
	SerializationInfo *SerializationInfo
}

// RecordSet is an ordered collection of records.
type RecordSet struct {
	// TypeName is the type name of the record set i.e. 'Collection(NS.Customer)'.
	TypeName string
	// Count is the total number of the records.
	Count *int64
	// NextLink is the link to the next page of the records.
	NextLink string
	// DeltaLink is the link used to get the changes of the record set.
	DeltaLink string
	// InstanceAnnotations are the custom annotations of the record set.
	InstanceAnnotations []*InstanceAnnotation
	// Actions are the actions bound to the record set.
	Actions []*Operation
	// Functions are the functions bound to the record set.
	Functions []*Operation
	// SerializationInfo is used to compute the context when no model is available.
	SerializationInfo *SerializationInfo
}

// Relationship is the navigation property of the record written with or without content.
type Relationship struct {
	// Name is the navigation property name.
	Name string
	// IsCollection defines the relationship cardinality. If nil the cardinality is resolved from the model.
	IsCollection *bool
	// URL is the explicit navigation link.
	URL string
	// AssociationLinkURL is the explicit association link.
	AssociationLinkURL string
}

// ReferenceLink binds the existing record into the relationship by its url.
type ReferenceLink struct {
	URL string
}

// Property is the named structural value of the record.
// The value might be a primitive go value, *ComplexValue, *CollectionValue, *EnumValue or *StreamReference.
type Property struct {
	Name  string
	Value interface{}
	// TypeName is the optional type name of the value i.e. 'Edm.Int64'.
	TypeName            string
	InstanceAnnotations []*InstanceAnnotation
}

// ComplexValue is the structured value without the identity.
type ComplexValue struct {
	TypeName            string
	Properties          []*Property
	InstanceAnnotations []*InstanceAnnotation
}

// CollectionValue is the collection of primitive, complex or enum values.
type CollectionValue struct {
	// TypeName is the collection type name i.e. 'Collection(Edm.String)'.
	TypeName string
	Items    []interface{}
}

// EnumValue is the value of the enum type.
type EnumValue struct {
	TypeName string
	Value    string
}

// StreamReference is the reference to the media stream.
type StreamReference struct {
	EditLink    string
	ReadLink    string
	ContentType string
	ETag        string
}

// InstanceAnnotation is the custom annotation i.e. '@NS.term'.
type InstanceAnnotation struct {
	Name  string
	Value interface{}
}

// Operation is the action or function advertised by the record or the record set.
type Operation struct {
	// Metadata is the operation metadata reference i.e. '#NS.Approve'.
	Metadata string
	Title    string
	Target   string
}

// RemovedReason is the reason of the removal of the record in the delta payload.
type RemovedReason struct {
	// Reason is either 'deleted' or 'changed'.
	Reason string
}

// Removal reasons.
const (
	ReasonDeleted = "deleted"
	ReasonChanged = "changed"
)

// SerializationInfo provides the metadata hints for the items written without the model.
type SerializationInfo struct {
	NavigationSourceName           string
	NavigationSourceKind           mapping.SourceKind
	NavigationSourceEntityTypeName string
	ExpectedTypeName               string
	// KeyNames are the names of the key properties.
	KeyNames []string
}

// Bool returns the pointer to 'b'. Useful for Relationship.IsCollection.
func Bool(b bool) *bool {
	return &b
}

// Int64 returns the pointer to 'i'. Useful for RecordSet.Count.
func Int64(i int64) *int64 {
	return &i
}
