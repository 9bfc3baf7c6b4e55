package odata

import (
	"context"
	"io"

	"github.com/neuronlabs/neuron-odata/encoding/jsontoken"
	"github.com/neuronlabs/neuron-odata/errors"
	"github.com/neuronlabs/neuron-odata/log"
)

var logger = log.NewModuleLogger("odata")

// TokenWriter is the low level JSON token emitter used by the payload writer.
type TokenWriter interface {
	StartObject() error
	EndObject() error
	StartArray() error
	EndArray() error
	Name(name string) error
	Value(value interface{}) error
	// Err returns the first error of the token writer.
	Err() error
	// Flush writes the buffered tokens into 'out'.
	Flush(out io.Writer) error
}

var _ TokenWriter = &jsontoken.Writer{}

// Writer is the streaming OData JSON payload writer.
type Writer struct {
	out      io.Writer
	settings *Settings
	tokens   TokenWriter
	names    annotationNames
	oracle   typeNameOracle

	stack    scopeStack
	state    State
	poisoned error
}

// NewWriter creates new payload writer that writes into 'out' with provided 'settings'.
func NewWriter(out io.Writer, settings *Settings, options ...WriterOption) *Writer {
	if settings == nil {
		settings = &Settings{}
	}
	w := &Writer{
		out:      out,
		settings: settings,
		names:    annotationNames{withoutPrefix: settings.EnableAnnotationWithoutPrefix},
		oracle:   typeNameOracle{level: settings.MetadataLevel},
	}
	for _, option := range options {
		option(w)
	}
	if w.tokens == nil {
		w.tokens = jsontoken.NewWriter()
	}
	return w
}

// State gets current writer state.
func (w *Writer) State() State {
	return w.state
}

// StartPayload starts writing the payload.
func (w *Writer) StartPayload() error {
	return w.do("StartPayload", w.startPayload)
}

// EndPayload ends writing the payload. The single top level item must be already written.
func (w *Writer) EndPayload() error {
	return w.do("EndPayload", w.endPayload)
}

// StartRecordSet starts writing the record 'set'.
func (w *Writer) StartRecordSet(set *RecordSet) error {
	return w.do("StartRecordSet", func() error {
		return w.startRecordSet(set)
	})
}

// EndRecordSet ends writing current record set.
func (w *Writer) EndRecordSet() error {
	return w.do("EndRecordSet", w.endRecordSet)
}

// StartRecord starts writing the 'record'. A nil record is written as JSON null.
func (w *Writer) StartRecord(record *Record) error {
	return w.do("StartRecord", func() error {
		return w.startRecord(record)
	})
}

// EndRecord ends writing current record.
func (w *Writer) EndRecord() error {
	return w.do("EndRecord", w.endRecord)
}

// StartRelationship starts writing the relationship 'rel' of current record.
func (w *Writer) StartRelationship(rel *Relationship) error {
	return w.do("StartRelationship", func() error {
		return w.startRelationship(rel)
	})
}

// EndRelationship ends writing current relationship. A relationship with no content is written as a deferred link.
func (w *Writer) EndRelationship() error {
	return w.do("EndRelationship", w.endRelationship)
}

// WriteReferenceLink writes the reference 'link' into current relationship. Allowed only in requests.
func (w *Writer) WriteReferenceLink(link *ReferenceLink) error {
	return w.do("WriteReferenceLink", func() error {
		return w.writeReferenceLink(link)
	})
}

// Flush writes the buffered payload into the output.
func (w *Writer) Flush(ctx context.Context) error {
	return w.do("Flush", func() error {
		if err := ctx.Err(); err != nil {
			return errors.WrapDetf(ErrTransport, "flush canceled: %v", err)
		}
		if w.out == nil {
			return errors.WrapDet(ErrTransport, "no output defined")
		}
		if err := w.tokens.Flush(w.out); err != nil {
			if errors.Is(err, ErrWriter) {
				return err
			}
			return errors.WrapDetf(ErrTransport, "flushing payload failed: %v", err)
		}
		return nil
	})
}

// Close flushes the buffered payload.
func (w *Writer) Close() error {
	return w.Flush(context.Background())
}

// do executes the operation 'f' and poisons the writer on the first failure.
func (w *Writer) do(operation string, f func() error) error {
	if w.poisoned != nil {
		err := errors.WrapDetf(ErrWriterPoisoned, "writer is poisoned by previous failure: %v", w.poisoned)
		if det, ok := w.poisoned.(*errors.DetailedError); ok {
			err = err.WithDetailf("first failure id: %s, operation: %s", det.ID, det.Operation)
		}
		return err.WithOperation(operation)
	}
	err := f()
	if err == nil {
		return nil
	}
	var det *errors.DetailedError
	if errors.As(err, &det) {
		det.Operation = operation
	} else {
		det = errors.WrapDet(err, err.Error()).WithOperation(operation)
		err = det
	}
	w.poisoned = err
	w.state = StateError
	logger.Debugf("%s failed: %v", operation, err)
	return err
}

func (w *Writer) startPayload() error {
	if w.state != StateStart || w.stack.len() != 0 {
		return errors.WrapDetf(ErrState, "top level: payload already started in state: %s", w.state)
	}
	sc := newScope(topLevelScope, StateStart, nil)
	sc.source = w.settings.NavigationSource
	sc.expectedType = w.settings.ExpectedType
	if sc.expectedType == nil && sc.source != nil {
		sc.expectedType = sc.source.EntityType()
	}
	sc.query = w.settings.Query
	if sc.query != nil {
		sc.selected = sc.query.Select
	}
	w.stack.push(sc)
	if logger.IsAllowed(log.LevelDebug3) {
		logger.Debug3f("Payload started. Response: %v, metadata: %s", w.settings.WritingResponse, w.settings.MetadataLevel)
	}
	return nil
}

func (w *Writer) endPayload() error {
	sc, err := w.stack.current()
	if err != nil {
		return err
	}
	if sc.kind != topLevelScope {
		return errors.WrapDetf(ErrScopeKind, "%s: payload ended with unfinished %s scope", sc.kind, sc.kind)
	}
	if sc.items == 0 {
		return errors.WrapDet(ErrState, "top level: no payload item written")
	}
	if _, err = w.stack.pop(); err != nil {
		return err
	}
	w.state = StateCompleted
	if logger.IsAllowed(log.LevelDebug3) {
		logger.Debug3f("Payload completed")
	}
	return w.tokens.Err()
}

// leave pops the current scope and restores the state of its parent.
func (w *Writer) leave() error {
	sc, err := w.stack.pop()
	if err != nil {
		return err
	}
	parent, err := w.stack.current()
	if err != nil {
		return err
	}
	w.state = parent.state
	if logger.IsAllowed(log.LevelDebug3) {
		logger.Debug3f("Left %s scope, state: %s", sc.kind, w.state)
	}
	return nil
}

func (w *Writer) enter(sc *scope) {
	w.stack.push(sc)
	w.state = sc.state
	if logger.IsAllowed(log.LevelDebug3) {
		logger.Debug3f("Entered %s scope at depth: %d", sc.kind, w.stack.len())
	}
}

// owningRelationshipOf gets the relationship that contains the record scope 'sc' directly or through the record set.
func (w *Writer) owningRelationshipOf(sc *scope) *scope {
	below := w.scopeBelow(sc)
	if below != nil && below.kind == recordSetScope {
		below = w.scopeBelow(below)
	}
	if below != nil && below.kind == relationshipScope {
		return below
	}
	return nil
}

// parentRecordOf gets the record scope that owns the relationship scope 'rel'.
func (w *Writer) parentRecordOf(rel *scope) *scope {
	if below := w.scopeBelow(rel); below != nil && below.kind == recordScope {
		return below
	}
	return nil
}

func (w *Writer) scopeBelow(sc *scope) *scope {
	for i := len(w.stack.scopes) - 1; i > 0; i-- {
		if w.stack.scopes[i] == sc {
			return w.stack.scopes[i-1]
		}
	}
	return nil
}

// skipping checks if the output of the current scope is suppressed.
func (w *Writer) skipping() bool {
	sc, err := w.stack.current()
	return err == nil && sc.skipWriting
}

func (w *Writer) startObject() error {
	if w.skipping() {
		return nil
	}
	return w.tokens.StartObject()
}

func (w *Writer) endObject() error {
	if w.skipping() {
		return nil
	}
	return w.tokens.EndObject()
}

func (w *Writer) startArray() error {
	if w.skipping() {
		return nil
	}
	return w.tokens.StartArray()
}

func (w *Writer) endArray() error {
	if w.skipping() {
		return nil
	}
	return w.tokens.EndArray()
}

func (w *Writer) name(name string) error {
	if w.skipping() {
		return nil
	}
	return w.tokens.Name(name)
}

func (w *Writer) value(value interface{}) error {
	if w.skipping() {
		return nil
	}
	return w.tokens.Value(value)
}

// annotation writes the annotation 'name' with the 'value'.
func (w *Writer) annotation(name string, value interface{}) error {
	if err := w.name(name); err != nil {
		return err
	}
	return w.value(value)
}

// metadataValue resolves the metadata value. The explicit value is written for minimal and full metadata,
// the computed one only for full metadata.
func (w *Writer) metadataValue(explicit string, computed func() string) string {
	switch w.settings.MetadataLevel {
	case MetadataNone:
		return ""
	case MetadataFull:
		if explicit != "" {
			return explicit
		}
		return computed()
	default:
		return explicit
	}
}

// writeContextURL writes the context url annotation for the property 'propertyName' or the item if empty.
// The context url is written only in responses.
func (w *Writer) writeContextURL(propertyName string, c contextURL) error {
	if !w.settings.WritingResponse || w.settings.MetadataLevel == MetadataNone {
		return nil
	}
	u := c.String(w.settings.serviceRoot())
	if u == "" {
		return nil
	}
	return w.annotation(w.names.property(propertyName, AnnotationContext), u)
}

// writeInstanceAnnotations writes the custom instance 'annotations' not yet tracked by the 'tracker'.
func (w *Writer) writeInstanceAnnotations(propertyName string, annotations []*InstanceAnnotation, tracker *instanceAnnotationTracker) error {
	for _, a := range annotations {
		if a == nil {
			continue
		}
		if err := validateAnnotationName(a.Name); err != nil {
			return err
		}
		if tracker.isWritten(a.Name) {
			continue
		}
		if err := w.name(w.names.custom(propertyName, a.Name)); err != nil {
			return err
		}
		if err := w.writeAnnotationValue(a.Value); err != nil {
			return err
		}
		tracker.markWritten(a.Name)
	}
	return nil
}

func (w *Writer) writeAnnotationValue(value interface{}) error {
	switch v := value.(type) {
	case *ComplexValue:
		return w.writeComplexValue(v, nil)
	case *CollectionValue:
		return w.writeCollectionValue(v, nil)
	case *EnumValue:
		if v == nil {
			return w.value(nil)
		}
		return w.value(v.Value)
	}
	return w.value(value)
}
