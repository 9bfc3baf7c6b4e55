package odata

import (
	"strings"

	"github.com/neuronlabs/neuron-odata/errors"
)

// OData annotation names without the prefix.
const (
	AnnotationContext          = "context"
	AnnotationCount            = "count"
	AnnotationNextLink         = "nextLink"
	AnnotationDeltaLink        = "deltaLink"
	AnnotationType             = "type"
	AnnotationID               = "id"
	AnnotationETag             = "etag"
	AnnotationEditLink         = "editLink"
	AnnotationReadLink         = "readLink"
	AnnotationMediaEditLink    = "mediaEditLink"
	AnnotationMediaReadLink    = "mediaReadLink"
	AnnotationMediaContentType = "mediaContentType"
	AnnotationMediaETag        = "mediaEtag"
	AnnotationNavigationLink   = "navigationLink"
	AnnotationAssociationLink  = "associationLink"
	AnnotationBind             = "bind"
	AnnotationRemoved          = "removed"
)

const odataNamespacePrefix = "odata."

// annotationNames formats the annotation names with or without the 'odata.' prefix.
type annotationNames struct {
	withoutPrefix bool
}

// name gets the record level annotation name i.e. '@odata.count'.
func (n annotationNames) name(annotation string) string {
	if n.withoutPrefix {
		return "@" + annotation
	}
	return "@" + odataNamespacePrefix + annotation
}

// property gets the property scoped annotation name i.e. 'Orders@odata.count'.
func (n annotationNames) property(propertyName, annotation string) string {
	return propertyName + n.name(annotation)
}

// custom gets the custom instance annotation name i.e. '@NS.term' or 'Name@NS.term'.
func (n annotationNames) custom(propertyName, term string) string {
	return propertyName + "@" + term
}

func validateAnnotationName(name string) error {
	if name == "" {
		return errors.WrapDet(ErrInvalidItem, "instance annotation with an empty name")
	}
	if strings.HasPrefix(name, odataNamespacePrefix) {
		return errors.WrapDetf(ErrUnsupportedAnnotation, "custom instance annotation: '%s' in the reserved odata namespace", name)
	}
	if strings.IndexByte(name, '.') <= 0 || strings.HasSuffix(name, ".") {
		return errors.WrapDetf(ErrInvalidItem, "instance annotation name: '%s' is not namespace qualified", name)
	}
	return nil
}

// instanceAnnotationTracker tracks the custom annotations written within a scope.
type instanceAnnotationTracker struct {
	written map[string]struct{}
}

func (t *instanceAnnotationTracker) isWritten(name string) bool {
	_, ok := t.written[name]
	return ok
}

func (t *instanceAnnotationTracker) markWritten(name string) {
	if t.written == nil {
		t.written = map[string]struct{}{}
	}
	t.written[name] = struct{}{}
}

// typeNameOracle decides which type names are written for given metadata level.
type typeNameOracle struct {
	level MetadataLevel
}

// structuredTypeName gets the type name to write for a record or record set.
// The 'expected' is the type name known from the model or context, the 'actual' is the type name of the item.
func (o typeNameOracle) structuredTypeName(expected, actual string) string {
	switch o.level {
	case MetadataNone:
		return ""
	case MetadataFull:
		if actual == "" {
			return expected
		}
		return actual
	default:
		if actual == "" || actual == expected {
			return ""
		}
		return actual
	}
}

// valueTypeName gets the type name to write for the property value.
// The 'declared' type name is empty for the undeclared properties.
func (o typeNameOracle) valueTypeName(declared, actual string) string {
	if actual == "" || o.level == MetadataNone {
		return ""
	}
	if o.level == MetadataFull {
		if isInferableType(actual) {
			return ""
		}
		return actual
	}
	if declared == "" {
		if isInferableType(actual) {
			return ""
		}
		return actual
	}
	if declared != actual {
		return actual
	}
	return ""
}

// isInferableType checks if the type of the value is implied by the JSON value itself.
func isInferableType(typeName string) bool {
	switch typeName {
	case "Edm.String", "Edm.Boolean", "Edm.Double":
		return true
	}
	return false
}

// typeAnnotationValue formats the type name as the type annotation value i.e. '#NS.Customer', '#Collection(Int64)'.
func typeAnnotationValue(typeName string) string {
	if strings.HasPrefix(typeName, "#") {
		return typeName
	}
	if strings.HasPrefix(typeName, "Collection(") && strings.HasSuffix(typeName, ")") {
		inner := typeName[len("Collection(") : len(typeName)-1]
		return "#Collection(" + strings.TrimPrefix(inner, "Edm.") + ")"
	}
	return "#" + strings.TrimPrefix(typeName, "Edm.")
}
