package odata

import (
	"github.com/neuronlabs/neuron-odata/errors"
)

func (w *Writer) startRelationship(rel *Relationship) error {
	if rel == nil || rel.Name == "" {
		return errors.WrapDet(ErrInvalidItem, "relationship: nil or unnamed relationship")
	}
	parent, _, st, err := w.stack.currentRecord()
	if err != nil {
		return err
	}
	if st.isNull {
		return errors.WrapDetf(ErrState, "record: relationship: '%s' of the null record", rel.Name)
	}
	if err = st.properties.check(rel.Name); err != nil {
		return err
	}
	st.markProcessed(rel.Name)

	sc := newScope(relationshipScope, StateRelationship, rel).inherit(parent)
	w.resolveRelationship(sc, parent, rel)
	if w.settings.WritingResponse && !parent.selected.IsSelected(rel.Name) {
		sc.skipWriting = true
	}
	sc.selected = parent.selected.Nested(rel.Name)
	w.enter(sc)
	return nil
}

// resolveRelationship resolves the cardinality, the navigation source and the target type of the relationship scope.
func (w *Writer) resolveRelationship(sc, parent *scope, rel *Relationship) {
	st := sc.relationship
	sc.source = nil
	sc.expectedType = nil
	if rel.IsCollection != nil {
		st.isCollection = Bool(*rel.IsCollection)
	}
	if parent == nil {
		return
	}
	if owner := parent.record.entityType; owner != nil {
		if p, ok := owner.Property(rel.Name); ok && p.IsNavigation() {
			sc.expectedType = p.Target()
			if st.isCollection == nil {
				st.isCollection = Bool(p.IsCollection())
			}
		} else {
			st.undeclared = true
		}
	}
	if parent.source != nil {
		sc.source = parent.source.Target(rel.Name)
	}
	if sc.expectedType == nil && sc.source != nil {
		sc.expectedType = sc.source.EntityType()
	}
}

// startRelationshipContent replaces the deferred relationship scope with the one that has the content.
func (w *Writer) startRelationshipContent(sc *scope) (*scope, error) {
	clone := sc.cloneWithState(StateRelationshipWithContent)
	if err := w.stack.replaceCurrent(clone); err != nil {
		return nil, err
	}
	w.state = clone.state
	rel, st, err := clone.relationshipItem()
	if err != nil {
		return nil, err
	}
	parent := w.stack.parentOfKind(recordScope)
	w.resolveRelationship(clone, parent, rel)

	if !w.settings.WritingResponse {
		if st.isCollection == nil {
			return nil, errors.WrapDetf(ErrUnknownCardinality, "relationship: '%s' cardinality is unknown", rel.Name)
		}
		return clone, nil
	}

	if clone.source != nil && clone.source.IsContained() && parent != nil {
		isSingle := st.isCollection != nil && !*st.isCollection
		c := containedContextURL(parent.record.builder.basePath(), rel.Name, isSingle, clone.selected)
		if err = w.writeContextURL(rel.Name, c); err != nil {
			return nil, err
		}
	}
	if err = w.writeLinkMetadata(parent, rel); err != nil {
		return nil, err
	}
	return clone, nil
}

// writeLinkMetadata writes the association and the navigation link of the relationship.
func (w *Writer) writeLinkMetadata(parent *scope, rel *Relationship) error {
	if w.settings.MetadataLevel == MetadataNone {
		return nil
	}
	var b metadataBuilder = nullMetadataBuilder{}
	if parent != nil && parent.record.builder != nil {
		b = parent.record.builder
	}
	association := w.metadataValue(rel.AssociationLinkURL, func() string {
		return b.associationLink(rel.Name)
	})
	if association != "" {
		if err := w.annotation(w.names.property(rel.Name, AnnotationAssociationLink), association); err != nil {
			return err
		}
	}
	navigation := w.metadataValue(rel.URL, func() string {
		return b.navigationLink(rel.Name)
	})
	if navigation != "" {
		if err := w.annotation(w.names.property(rel.Name, AnnotationNavigationLink), navigation); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) endRelationship() error {
	sc, rel, st, err := w.stack.currentRelationship()
	if err != nil {
		return err
	}
	if sc.state == StateRelationship {
		if !w.settings.WritingResponse {
			return errors.WrapDetf(ErrDeferredLinkInRequest, "relationship: '%s' without content in a request", rel.Name)
		}
		if err = w.writeLinkMetadata(w.stack.parentOfKind(recordScope), rel); err != nil {
			return err
		}
		return w.leave()
	}

	if !w.settings.WritingResponse {
		if st.referenceLinkWritten && !st.recordSetWritten && st.collection() {
			if err = w.endArray(); err != nil {
				return err
			}
		}
		if st.recordSetWritten {
			if !st.collection() {
				return errors.WrapDetf(ErrState, "relationship: record set written for single valued relationship: '%s'", rel.Name)
			}
			if err = w.endArray(); err != nil {
				return err
			}
		}
	}
	return w.leave()
}

func (w *Writer) writeReferenceLink(link *ReferenceLink) error {
	if link == nil || link.URL == "" {
		return errors.WrapDet(ErrInvalidItem, "reference link: nil or empty reference link")
	}
	sc, rel, st, err := w.stack.currentRelationship()
	if err != nil {
		return err
	}
	if w.settings.WritingResponse {
		return errors.WrapDetf(ErrReferenceLinkInResponse, "relationship: '%s' reference link in a response", rel.Name)
	}
	if sc.state == StateRelationship {
		if sc, err = w.startRelationshipContent(sc); err != nil {
			return err
		}
		_, st, _ = sc.relationshipItem()
	}
	if st.recordSetWritten {
		return errors.WrapDetf(ErrEntityReferenceLinkAfterRecordSetInRequest, "relationship: '%s' reference link after the record set", rel.Name)
	}
	if !st.collection() && sc.items > 0 {
		return errors.WrapDetf(ErrState, "relationship: single valued relationship: '%s' content already written", rel.Name)
	}
	if !st.referenceLinkWritten {
		if err = w.name(w.names.property(rel.Name, AnnotationBind)); err != nil {
			return err
		}
		if st.collection() {
			if err = w.startArray(); err != nil {
				return err
			}
		}
	}
	if err = w.value(link.URL); err != nil {
		return err
	}
	st.referenceLinkWritten = true
	sc.items++
	return nil
}
