package odata

import (
	"github.com/neuronlabs/neuron-odata/errors"
	"github.com/neuronlabs/neuron-odata/mapping"
)

const valuePropertyName = "value"

func (w *Writer) startRecordSet(set *RecordSet) error {
	if set == nil {
		return errors.WrapDet(ErrInvalidItem, "record set: nil record set")
	}
	parent, err := w.stack.current()
	if err != nil {
		return err
	}

	switch parent.kind {
	case topLevelScope:
		if parent.items > 0 {
			return errors.WrapDet(ErrState, "top level: payload item already written")
		}
	case relationshipScope:
		if parent, err = w.prepareRelationshipForRecordSet(parent, set); err != nil {
			return err
		}
	case recordSetScope:
		return errors.WrapDet(ErrState, "record set: a record set might contain only records")
	default:
		return errors.WrapDetf(ErrState, "%s: record set must be written within a relationship", parent.kind)
	}

	sc := newScope(recordSetScope, StateRecordSet, set).inherit(parent)
	if parent.kind == relationshipScope {
		_, relState, _ := parent.relationshipItem()
		sc.set.isUndeclared = relState.undeclared
	}
	if set.TypeName != "" && w.settings.Model != nil {
		if t, ok := w.settings.Model.Type(elementTypeName(set.TypeName)); ok {
			sc.expectedType = t
		}
	}
	parent.items++
	w.enter(sc)

	switch {
	case parent.kind == topLevelScope && w.settings.WritingParameter:
		return w.startArray()
	case parent.kind == topLevelScope:
		return w.startTopLevelRecordSet(sc, set)
	default:
		return w.startExpandedRecordSet(sc, parent, set)
	}
}

// prepareRelationshipForRecordSet validates the expanded record set before anything is written.
func (w *Writer) prepareRelationshipForRecordSet(parent *scope, set *RecordSet) (*scope, error) {
	rel, relState, err := parent.relationshipItem()
	if err != nil {
		return nil, err
	}
	if relState.isCollection != nil && !*relState.isCollection {
		return nil, errors.WrapDetf(ErrNotCollectionRelationship, "relationship: '%s' is not collection valued", rel.Name)
	}
	if set.DeltaLink != "" {
		return nil, errors.WrapDetf(ErrExpandedSetMetadataNotAllowed, "record set: expanded record set of relationship: '%s' must not have a delta link", rel.Name)
	}
	if len(set.InstanceAnnotations) > 0 {
		return nil, errors.WrapDetf(ErrExpandedSetMetadataNotAllowed, "record set: expanded record set of relationship: '%s' must not have instance annotations", rel.Name)
	}
	if w.settings.WritingResponse && parent.items > 0 {
		return nil, errors.WrapDetf(ErrState, "relationship: '%s' content already written", rel.Name)
	}
	if parent.state == StateRelationship {
		if parent, err = w.startRelationshipContent(parent); err != nil {
			return nil, err
		}
		_, relState, _ = parent.relationshipItem()
		if relState.isCollection != nil && !*relState.isCollection {
			return nil, errors.WrapDetf(ErrNotCollectionRelationship, "relationship: '%s' is not collection valued", rel.Name)
		}
	}
	if relState.isCollection == nil {
		relState.isCollection = Bool(true)
	}
	return parent, nil
}

func (w *Writer) startTopLevelRecordSet(sc *scope, set *RecordSet) error {
	if err := w.startObject(); err != nil {
		return err
	}
	itemType := elementTypeName(set.TypeName)
	if err := w.writeContextURL("", w.topLevelContextURL(sc, false, itemType, set.SerializationInfo)); err != nil {
		return err
	}
	if w.settings.WritingResponse {
		if err := w.writeRecordSetResponseMetadata(sc, set); err != nil {
			return err
		}
	}
	if err := w.writeInstanceAnnotations("", set.InstanceAnnotations, &sc.annotations); err != nil {
		return err
	}
	if err := w.name(valuePropertyName); err != nil {
		return err
	}
	return w.startArray()
}

// writeRecordSetResponseMetadata writes the actions, functions, count, next link and delta link of the top level record set.
func (w *Writer) writeRecordSetResponseMetadata(sc *scope, set *RecordSet) error {
	_, st, err := sc.recordSet()
	if err != nil {
		return err
	}
	if w.settings.MetadataLevel != MetadataNone {
		if err = w.writeOperations(set.Actions, nullMetadataBuilder{}); err != nil {
			return err
		}
		if err = w.writeOperations(set.Functions, nullMetadataBuilder{}); err != nil {
			return err
		}
	}
	if set.Count != nil {
		if err = w.annotation(w.names.name(AnnotationCount), *set.Count); err != nil {
			return err
		}
	}
	if err = w.writeNextLink("", set, st); err != nil {
		return err
	}
	return w.writeDeltaLink(set, st)
}

func (w *Writer) writeNextLink(propertyName string, set *RecordSet, st *recordSetState) error {
	if set.NextLink == "" || st.nextLinkWritten {
		return nil
	}
	if err := st.markNextLinkWritten(); err != nil {
		return err
	}
	return w.annotation(w.names.property(propertyName, AnnotationNextLink), set.NextLink)
}

func (w *Writer) writeDeltaLink(set *RecordSet, st *recordSetState) error {
	if set.DeltaLink == "" || st.deltaLinkWritten {
		return nil
	}
	if err := st.markDeltaLinkWritten(); err != nil {
		return err
	}
	return w.annotation(w.names.name(AnnotationDeltaLink), set.DeltaLink)
}

func (w *Writer) startExpandedRecordSet(sc, parent *scope, set *RecordSet) error {
	rel, relState, err := parent.relationshipItem()
	if err != nil {
		return err
	}
	if w.settings.WritingResponse {
		if set.Count != nil {
			if err = w.annotation(w.names.property(rel.Name, AnnotationCount), *set.Count); err != nil {
				return err
			}
		}
		if err = w.writeNextLink(rel.Name, set, sc.set); err != nil {
			return err
		}
		if err = w.writeRecordSetTypeAnnotation(rel.Name, sc, parent, set); err != nil {
			return err
		}
		if err = w.name(rel.Name); err != nil {
			return err
		}
		return w.startArray()
	}

	if relState.recordSetWritten {
		// following record sets of the same relationship are spliced into the already opened array.
		return nil
	}
	if relState.referenceLinkWritten {
		if err = w.endArray(); err != nil {
			return err
		}
	}
	if err = w.writeRecordSetTypeAnnotation(rel.Name, sc, parent, set); err != nil {
		return err
	}
	if err = w.name(rel.Name); err != nil {
		return err
	}
	if err = w.startArray(); err != nil {
		return err
	}
	relState.recordSetWritten = true
	return nil
}

// writeRecordSetTypeAnnotation writes the expanded record set type when it differs from the declared one.
// The record set of an undeclared relationship has no declared type.
func (w *Writer) writeRecordSetTypeAnnotation(propertyName string, sc, parent *scope, set *RecordSet) error {
	if set.TypeName == "" {
		return nil
	}
	var declared string
	if parent.expectedType != nil && !sc.set.isUndeclared {
		declared = mapping.CollectionTypeName(parent.expectedType.FullName())
	}
	actual := set.TypeName
	if elementTypeName(actual) == actual {
		actual = mapping.CollectionTypeName(actual)
	}
	if w.settings.MetadataLevel == MetadataNone || actual == declared {
		return nil
	}
	return w.annotation(w.names.property(propertyName, AnnotationType), typeAnnotationValue(actual))
}

func (w *Writer) endRecordSet() error {
	sc, set, st, err := w.stack.currentRecordSet()
	if err != nil {
		return err
	}
	parent := w.stack.parent()
	if parent == nil {
		return errors.WrapDet(ErrState, "record set: no enclosing scope")
	}

	switch {
	case parent.kind == topLevelScope && w.settings.WritingParameter:
		if err = w.endArray(); err != nil {
			return err
		}
	case parent.kind == topLevelScope:
		if err = w.endArray(); err != nil {
			return err
		}
		if err = w.writeInstanceAnnotations("", set.InstanceAnnotations, &sc.annotations); err != nil {
			return err
		}
		if w.settings.WritingResponse {
			if err = w.writeNextLink("", set, st); err != nil {
				return err
			}
			if err = w.writeDeltaLink(set, st); err != nil {
				return err
			}
		}
		if err = w.endObject(); err != nil {
			return err
		}
	case w.settings.WritingResponse:
		rel, _, err := parent.relationshipItem()
		if err != nil {
			return err
		}
		if err = w.endArray(); err != nil {
			return err
		}
		if err = w.writeNextLink(rel.Name, set, st); err != nil {
			return err
		}
	}
	// the request expanded record set array is closed by the relationship end.
	return w.leave()
}
