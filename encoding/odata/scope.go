package odata

import (
	"strings"

	"github.com/neuronlabs/neuron-odata/errors"
	"github.com/neuronlabs/neuron-odata/mapping"
)

// State is the state of the payload writer.
type State int

// Writer states.
const (
	StateStart State = iota
	StateRecordSet
	StateRecord
	// StateRelationship is the state of the relationship with no content written yet.
	StateRelationship
	// StateRelationshipWithContent is the state of the relationship that has its content written.
	StateRelationshipWithContent
	StateCompleted
	StateError
)

// String implements fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateRecordSet:
		return "RecordSet"
	case StateRecord:
		return "Record"
	case StateRelationship:
		return "Relationship"
	case StateRelationshipWithContent:
		return "RelationshipWithContent"
	case StateCompleted:
		return "Completed"
	case StateError:
		return "Error"
	}
	return "Unknown"
}

type scopeKind int

const (
	topLevelScope scopeKind = iota
	recordSetScope
	recordScope
	relationshipScope
)

func (k scopeKind) String() string {
	switch k {
	case topLevelScope:
		return "top level"
	case recordSetScope:
		return "record set"
	case recordScope:
		return "record"
	case relationshipScope:
		return "relationship"
	}
	return "unknown"
}

// scope is a single node of the writer scope stack. The shared fields are common for all kinds,
// only the variant of the scope kind is set.
type scope struct {
	kind  scopeKind
	state State
	// item is the *RecordSet, *Record or *Relationship of the scope. Nil for the top level and null records.
	item         interface{}
	source       *mapping.NavigationSource
	expectedType *mapping.StructType
	// skipWriting suppresses the output of the scope and all its children.
	skipWriting bool
	selected    *SelectedProperties
	query       *QueryContext
	// items is the number of child items written within the scope.
	items int

	annotations instanceAnnotationTracker

	set          *recordSetState
	record       *recordState
	relationship *relationshipState
}

func newScope(kind scopeKind, state State, item interface{}) *scope {
	sc := &scope{kind: kind, state: state, item: item}
	switch kind {
	case recordSetScope:
		sc.set = &recordSetState{}
	case recordScope:
		sc.record = &recordState{}
	case relationshipScope:
		sc.relationship = &relationshipState{}
	}
	return sc
}

// inherit copies the shared fields of the 'parent' scope.
func (s *scope) inherit(parent *scope) *scope {
	s.source = parent.source
	s.expectedType = parent.expectedType
	s.skipWriting = parent.skipWriting
	s.selected = parent.selected
	s.query = parent.query
	return s
}

func (s *scope) recordSet() (*RecordSet, *recordSetState, error) {
	if s.kind != recordSetScope {
		return nil, nil, s.kindError(recordSetScope)
	}
	set, _ := s.item.(*RecordSet)
	return set, s.set, nil
}

func (s *scope) recordItem() (*Record, *recordState, error) {
	if s.kind != recordScope {
		return nil, nil, s.kindError(recordScope)
	}
	record, _ := s.item.(*Record)
	return record, s.record, nil
}

func (s *scope) relationshipItem() (*Relationship, *relationshipState, error) {
	if s.kind != relationshipScope {
		return nil, nil, s.kindError(relationshipScope)
	}
	rel, _ := s.item.(*Relationship)
	return rel, s.relationship, nil
}

func (s *scope) kindError(expected scopeKind) error {
	return errors.WrapDetf(ErrScopeKind, "expected %s scope but current scope is %s", expected, s.kind)
}

// cloneWithState creates a copy of the relationship scope with the new 'state'.
// Only the write-once flags of the relationship state survive the transition.
func (s *scope) cloneWithState(state State) *scope {
	clone := newScope(s.kind, state, s.item)
	clone.source = s.source
	clone.expectedType = s.expectedType
	clone.skipWriting = s.skipWriting
	clone.selected = s.selected
	clone.query = s.query
	clone.annotations = s.annotations
	if s.relationship != nil {
		clone.relationship.referenceLinkWritten = s.relationship.referenceLinkWritten
		clone.relationship.recordSetWritten = s.relationship.recordSetWritten
	}
	return clone
}

type recordSetState struct {
	nextLinkWritten  bool
	deltaLinkWritten bool
	isUndeclared     bool
}

func (r *recordSetState) markNextLinkWritten() error {
	if r.nextLinkWritten {
		return errors.WrapDet(ErrDoubleWrite, "record set: next link already written")
	}
	r.nextLinkWritten = true
	return nil
}

func (r *recordSetState) markDeltaLinkWritten() error {
	if r.deltaLinkWritten {
		return errors.WrapDet(ErrDoubleWrite, "record set: delta link already written")
	}
	r.deltaLinkWritten = true
	return nil
}

// metadataProperty is the write-once metadata property of the record.
type metadataProperty uint8

const (
	editLinkProperty metadataProperty = 1 << iota
	readLinkProperty
	mediaEditLinkProperty
	mediaReadLinkProperty
	mediaContentTypeProperty
	mediaETagProperty
)

var metadataPropertyNames = map[metadataProperty]string{
	editLinkProperty:         "edit link",
	readLinkProperty:         "read link",
	mediaEditLinkProperty:    "media edit link",
	mediaReadLinkProperty:    "media read link",
	mediaContentTypeProperty: "media content type",
	mediaETagProperty:        "media etag",
}

func (m metadataProperty) String() string {
	var names []string
	for p := editLinkProperty; p <= mediaETagProperty; p <<= 1 {
		if m&p != 0 {
			names = append(names, metadataPropertyNames[p])
		}
	}
	return strings.Join(names, "|")
}

type recordState struct {
	written      metadataProperty
	isUndeclared bool
	isNull       bool

	entityType *mapping.StructType
	builder    metadataBuilder
	// properties checks the duplicates of the property and relationship names.
	properties duplicateChecker
	// processed are the relationship names written explicitly.
	processed map[string]struct{}
}

func (r *recordState) isWritten(p metadataProperty) bool {
	return r.written&p != 0
}

func (r *recordState) setWritten(p metadataProperty) error {
	if r.written&p != 0 {
		return errors.WrapDetf(ErrDoubleWrite, "record: %s already written", p)
	}
	r.written |= p
	return nil
}

func (r *recordState) markProcessed(name string) {
	if r.processed == nil {
		r.processed = map[string]struct{}{}
	}
	r.processed[name] = struct{}{}
}

func (r *recordState) isProcessed(name string) bool {
	_, ok := r.processed[name]
	return ok
}

type relationshipState struct {
	referenceLinkWritten bool
	recordSetWritten     bool

	// isCollection is the resolved cardinality. Nil when unknown.
	isCollection *bool
	// undeclared is set when the relationship is not declared by the record type.
	undeclared bool
}

func (r *relationshipState) collection() bool {
	return r.isCollection != nil && *r.isCollection
}
