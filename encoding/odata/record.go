package odata

import (
	"github.com/neuronlabs/neuron-odata/errors"
)

func (w *Writer) startRecord(record *Record) error {
	parent, err := w.stack.current()
	if err != nil {
		return err
	}
	switch parent.kind {
	case topLevelScope:
		if parent.items > 0 {
			return errors.WrapDet(ErrState, "top level: payload item already written")
		}
	case recordSetScope:
	case relationshipScope:
		if parent, err = w.prepareRelationshipForRecord(parent); err != nil {
			return err
		}
	default:
		return errors.WrapDet(ErrState, "record: nested record must be written within a relationship")
	}

	sc := newScope(recordScope, StateRecord, record).inherit(parent)
	parent.items++
	w.enter(sc)

	if relScope := w.stack.enclosingRelationship(); relScope != nil {
		rel, relState, _ := relScope.relationshipItem()
		sc.record.isUndeclared = relState.undeclared
		if err = w.name(rel.Name); err != nil {
			return err
		}
	}
	st := sc.record
	if record == nil {
		st.isNull = true
		return w.value(nil)
	}

	st.entityType = sc.expectedType
	if record.TypeName != "" && w.settings.Model != nil {
		if t, ok := w.settings.Model.Type(record.TypeName); ok {
			st.entityType = t
		} else {
			st.isUndeclared = true
		}
	}
	w.prepareForWriteStart(sc, record, st)

	if err = w.startObject(); err != nil {
		return err
	}
	if parent.kind == topLevelScope && !w.settings.WritingParameter {
		if err = w.writeContextURL("", w.topLevelContextURL(sc, true, record.TypeName, record.SerializationInfo)); err != nil {
			return err
		}
	}
	if err = w.writeRecordStartMetadata(sc, record, st); err != nil {
		return err
	}
	if err = w.writeRecordMetadataProperties(record, st); err != nil {
		return err
	}
	if err = w.writeInstanceAnnotations("", record.InstanceAnnotations, &sc.annotations); err != nil {
		return err
	}
	return w.writeProperties(st.entityType, record.Properties, &st.properties)
}

// prepareRelationshipForRecord starts the relationship content and checks if the record might be written within it.
func (w *Writer) prepareRelationshipForRecord(parent *scope) (*scope, error) {
	rel, relState, err := parent.relationshipItem()
	if err != nil {
		return nil, err
	}
	if parent.state == StateRelationship {
		if parent, err = w.startRelationshipContent(parent); err != nil {
			return nil, err
		}
		_, relState, _ = parent.relationshipItem()
	}
	if relState.isCollection == nil {
		relState.isCollection = Bool(false)
	}
	if *relState.isCollection {
		return nil, errors.WrapDetf(ErrState, "relationship: records of the collection relationship: '%s' must be written within a record set", rel.Name)
	}
	if parent.items > 0 {
		return nil, errors.WrapDetf(ErrState, "relationship: single valued relationship: '%s' content already written", rel.Name)
	}
	return parent, nil
}

// writeRecordStartMetadata writes the removal marker, type, id and etag of the record.
func (w *Writer) writeRecordStartMetadata(sc *scope, record *Record, st *recordState) error {
	if record.Removed != nil {
		if !w.settings.WritingDelta {
			return errors.WrapDet(ErrInvalidItem, "record: removed marker outside of the delta payload")
		}
		if err := w.name(w.names.name(AnnotationRemoved)); err != nil {
			return err
		}
		if err := w.startObject(); err != nil {
			return err
		}
		if record.Removed.Reason != "" {
			if err := w.annotation("reason", record.Removed.Reason); err != nil {
				return err
			}
		}
		if err := w.endObject(); err != nil {
			return err
		}
	}

	if typeName := w.recordTypeName(sc, record, st); typeName != "" {
		if err := w.annotation(w.names.name(AnnotationType), typeAnnotationValue(typeName)); err != nil {
			return err
		}
	}
	if id := w.metadataValue(record.ID, st.builder.id); id != "" {
		if err := w.annotation(w.names.name(AnnotationID), id); err != nil {
			return err
		}
	}
	if record.ETag != "" {
		if err := w.annotation(w.names.name(AnnotationETag), record.ETag); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) recordTypeName(sc *scope, record *Record, st *recordState) string {
	if st.isUndeclared && record.TypeName != "" && w.settings.MetadataLevel != MetadataNone {
		return record.TypeName
	}
	var expected string
	if sc.expectedType != nil {
		expected = sc.expectedType.FullName()
	} else if info := w.serializationInfo(sc, record); info != nil {
		expected = info.ExpectedTypeName
		if expected == "" {
			expected = info.NavigationSourceEntityTypeName
		}
	}
	return w.oracle.structuredTypeName(expected, record.TypeName)
}

// writeRecordMetadataProperties writes the write-once metadata properties that are available and not yet written.
func (w *Writer) writeRecordMetadataProperties(record *Record, st *recordState) error {
	if w.settings.MetadataLevel == MetadataNone {
		return nil
	}
	media := record.Media
	if media == nil {
		media = &StreamReference{}
	}
	b := st.builder
	properties := []struct {
		property   metadataProperty
		annotation string
		value      string
	}{
		{editLinkProperty, AnnotationEditLink, w.metadataValue(record.EditLink, b.editLink)},
		{readLinkProperty, AnnotationReadLink, w.metadataValue(record.ReadLink, noComputedValue)},
		{mediaEditLinkProperty, AnnotationMediaEditLink, w.metadataValue(media.EditLink, b.mediaEditLink)},
		{mediaReadLinkProperty, AnnotationMediaReadLink, w.metadataValue(media.ReadLink, noComputedValue)},
		{mediaContentTypeProperty, AnnotationMediaContentType, w.metadataValue(media.ContentType, noComputedValue)},
		{mediaETagProperty, AnnotationMediaETag, w.metadataValue(media.ETag, noComputedValue)},
	}
	for _, p := range properties {
		if p.value == "" || st.isWritten(p.property) {
			continue
		}
		if err := st.setWritten(p.property); err != nil {
			return err
		}
		if err := w.annotation(w.names.name(p.annotation), p.value); err != nil {
			return err
		}
	}
	return nil
}

func noComputedValue() string {
	return ""
}

func (w *Writer) endRecord() error {
	sc, record, st, err := w.stack.currentRecord()
	if err != nil {
		return err
	}
	if st.isNull {
		return w.leave()
	}
	if err = w.writeRecordMetadataProperties(record, st); err != nil {
		return err
	}
	if err = w.writeInstanceAnnotations("", record.InstanceAnnotations, &sc.annotations); err != nil {
		return err
	}
	if err = w.writeRecordEndMetadata(sc, record, st); err != nil {
		return err
	}
	if err = w.endObject(); err != nil {
		return err
	}
	return w.leave()
}

// writeRecordEndMetadata writes the navigation links of the relationships that were not written explicitly
// and the operations of the record.
func (w *Writer) writeRecordEndMetadata(sc *scope, record *Record, st *recordState) error {
	if !w.settings.WritingResponse || w.settings.MetadataLevel == MetadataNone {
		return nil
	}
	if w.settings.MetadataLevel == MetadataFull && st.entityType != nil {
		for _, nav := range st.entityType.NavigationProperties() {
			if st.isProcessed(nav.Name()) || !sc.selected.IsSelected(nav.Name()) {
				continue
			}
			link := st.builder.navigationLink(nav.Name())
			if link == "" {
				continue
			}
			if err := w.annotation(w.names.property(nav.Name(), AnnotationNavigationLink), link); err != nil {
				return err
			}
		}
	}
	if err := w.writeOperations(record.Actions, st.builder); err != nil {
		return err
	}
	return w.writeOperations(record.Functions, st.builder)
}
