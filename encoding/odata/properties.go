package odata

import (
	"github.com/neuronlabs/neuron-odata/errors"
	"github.com/neuronlabs/neuron-odata/mapping"
)

// duplicateChecker checks the duplicates of the names written within a single JSON object.
type duplicateChecker struct {
	names map[string]struct{}
}

func (d *duplicateChecker) check(name string) error {
	if _, ok := d.names[name]; ok {
		return errors.WrapDetf(ErrDuplicatePropertyName, "record: property: '%s' already written", name)
	}
	if d.names == nil {
		d.names = map[string]struct{}{}
	}
	d.names[name] = struct{}{}
	return nil
}

// writeProperties writes the 'properties' of the structured value of the 'owner' type.
func (w *Writer) writeProperties(owner *mapping.StructType, properties []*Property, checker *duplicateChecker) error {
	for _, p := range properties {
		if p == nil || p.Name == "" {
			return errors.WrapDet(ErrInvalidItem, "record: nil or unnamed property")
		}
		if err := checker.check(p.Name); err != nil {
			return err
		}
		if err := w.writeProperty(owner, p); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeProperty(owner *mapping.StructType, p *Property) error {
	var declared *mapping.Property
	if owner != nil {
		declared, _ = owner.Property(p.Name)
	}

	if stream, ok := p.Value.(*StreamReference); ok {
		return w.writeStreamProperty(p, stream)
	}
	if err := w.writeInstanceAnnotations(p.Name, p.InstanceAnnotations, &instanceAnnotationTracker{}); err != nil {
		return err
	}

	switch v := p.Value.(type) {
	case *ComplexValue:
		if err := w.name(p.Name); err != nil {
			return err
		}
		var target *mapping.StructType
		if declared != nil {
			target = declared.Target()
		}
		return w.writeComplexValue(v, target)
	case *CollectionValue:
		if v != nil {
			var declaredType string
			if declared != nil {
				declaredType = declared.FullTypeName()
			}
			if err := w.writeValueTypeAnnotation(p.Name, declaredType, v.TypeName); err != nil {
				return err
			}
		}
		if err := w.name(p.Name); err != nil {
			return err
		}
		var elem *mapping.StructType
		if declared != nil {
			elem = declared.Target()
		}
		return w.writeCollectionValue(v, elem)
	case *EnumValue:
		if v != nil {
			if err := w.writeValueTypeAnnotation(p.Name, declaredTypeName(declared), v.TypeName); err != nil {
				return err
			}
		}
		if err := w.name(p.Name); err != nil {
			return err
		}
		if v == nil {
			return w.value(nil)
		}
		return w.value(v.Value)
	default:
		if p.Value != nil {
			if err := w.writeValueTypeAnnotation(p.Name, declaredTypeName(declared), p.TypeName); err != nil {
				return err
			}
		}
		if err := w.name(p.Name); err != nil {
			return err
		}
		return w.value(p.Value)
	}
}

func declaredTypeName(p *mapping.Property) string {
	if p == nil {
		return ""
	}
	return p.FullTypeName()
}

func (w *Writer) writeValueTypeAnnotation(propertyName, declared, actual string) error {
	typeName := w.oracle.valueTypeName(declared, actual)
	if typeName == "" {
		return nil
	}
	return w.annotation(w.names.property(propertyName, AnnotationType), typeAnnotationValue(typeName))
}

// writeStreamProperty writes the named stream property as its property scoped media annotations.
func (w *Writer) writeStreamProperty(p *Property, stream *StreamReference) error {
	if !w.settings.WritingResponse {
		return errors.WrapDetf(ErrStreamPropertyInRequest, "record: stream property: '%s' in a request", p.Name)
	}
	if err := w.writeInstanceAnnotations(p.Name, p.InstanceAnnotations, &instanceAnnotationTracker{}); err != nil {
		return err
	}
	if stream == nil || w.settings.MetadataLevel == MetadataNone {
		return nil
	}
	links := []struct {
		annotation string
		value      string
	}{
		{AnnotationMediaEditLink, stream.EditLink},
		{AnnotationMediaReadLink, stream.ReadLink},
		{AnnotationMediaContentType, stream.ContentType},
		{AnnotationMediaETag, stream.ETag},
	}
	for _, link := range links {
		if link.value == "" {
			continue
		}
		if err := w.annotation(w.names.property(p.Name, link.annotation), link.value); err != nil {
			return err
		}
	}
	return nil
}

// writeComplexValue writes the complex value as the JSON object. The 'declared' type is nil for undeclared values.
func (w *Writer) writeComplexValue(v *ComplexValue, declared *mapping.StructType) error {
	if v == nil {
		return w.value(nil)
	}
	if err := w.startObject(); err != nil {
		return err
	}
	var declaredName string
	if declared != nil {
		declaredName = declared.FullName()
	}
	if typeName := w.complexTypeName(declaredName, v.TypeName); typeName != "" {
		if err := w.annotation(w.names.name(AnnotationType), typeAnnotationValue(typeName)); err != nil {
			return err
		}
	}
	if err := w.writeInstanceAnnotations("", v.InstanceAnnotations, &instanceAnnotationTracker{}); err != nil {
		return err
	}
	owner := declared
	if v.TypeName != "" && w.settings.Model != nil {
		if t, ok := w.settings.Model.Type(v.TypeName); ok {
			owner = t
		}
	}
	if err := w.writeProperties(owner, v.Properties, &duplicateChecker{}); err != nil {
		return err
	}
	return w.endObject()
}

// complexTypeName gets the type name of the complex value. The undeclared complex values always carry their type.
func (w *Writer) complexTypeName(declared, actual string) string {
	if declared == "" && actual != "" && w.settings.MetadataLevel != MetadataNone {
		return actual
	}
	return w.oracle.structuredTypeName(declared, actual)
}

// writeCollectionValue writes the collection of primitive, enum or complex values.
func (w *Writer) writeCollectionValue(v *CollectionValue, elem *mapping.StructType) error {
	if v == nil {
		return w.value(nil)
	}
	if err := w.startArray(); err != nil {
		return err
	}
	for _, item := range v.Items {
		var err error
		switch i := item.(type) {
		case *ComplexValue:
			err = w.writeComplexValue(i, elem)
		case *EnumValue:
			if i == nil {
				err = w.value(nil)
			} else {
				err = w.value(i.Value)
			}
		case *CollectionValue:
			err = errors.WrapDet(ErrInvalidItem, "record: nested collection values are not supported")
		default:
			err = w.value(item)
		}
		if err != nil {
			return err
		}
	}
	return w.endArray()
}
