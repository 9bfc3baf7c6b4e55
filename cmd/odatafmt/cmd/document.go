package cmd

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/neuronlabs/neuron-odata/encoding/odata"
	"github.com/neuronlabs/neuron-odata/errors"
	"github.com/neuronlabs/neuron-odata/log"
)

// member is the JSON object member.
type member struct {
	name  string
	value interface{}
}

// object is the JSON object with the members kept in the document order.
type object []member

// readDocument reads single JSON value from 'r'. The objects are read as the 'object' and the numbers
// as the json.Number.
func readDocument(r io.Reader) (interface{}, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := readValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err = dec.Token(); err != io.EOF {
		return nil, errors.WrapDet(ErrInput, "document contains more than one value")
	}
	return v, nil
}

func readValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.WrapDetf(ErrInput, "reading document failed: %v", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := object{}
		for dec.More() {
			tok, err = dec.Token()
			if err != nil {
				return nil, errors.WrapDetf(ErrInput, "reading object member failed: %v", err)
			}
			name, _ := tok.(string)
			value, err := readValue(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, member{name: name, value: value})
		}
		if _, err = dec.Token(); err != nil {
			return nil, errors.WrapDetf(ErrInput, "reading object end failed: %v", err)
		}
		return obj, nil
	case '[':
		arr := []interface{}{}
		for dec.More() {
			value, err := readValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err = dec.Token(); err != nil {
			return nil, errors.WrapDetf(ErrInput, "reading array end failed: %v", err)
		}
		return arr, nil
	}
	return nil, errors.WrapDetf(ErrInput, "unexpected delimiter: '%s'", delim)
}

type documentOptions struct {
	typeName     string
	info         *odata.SerializationInfo
	expand       map[string]struct{}
	selectClause string
	count        *int64
	nextLink     string
	deltaLink    string
	namer        func(string) string
}

// writeDocument writes the document 'doc' as the payload. The arrays are written as the record sets
// and the objects as the records.
func writeDocument(w *odata.Writer, doc interface{}, opts *documentOptions) error {
	if err := w.StartPayload(); err != nil {
		return err
	}
	switch d := doc.(type) {
	case []interface{}:
		set := &odata.RecordSet{
			Count:             opts.count,
			NextLink:          opts.nextLink,
			DeltaLink:         opts.deltaLink,
			SerializationInfo: opts.info,
		}
		if opts.typeName != "" {
			set.TypeName = "Collection(" + opts.typeName + ")"
		}
		if err := writeRecordSet(w, set, d, opts); err != nil {
			return err
		}
	case object, nil:
		if err := writeRecord(w, doc, opts, true); err != nil {
			return err
		}
	default:
		return errors.WrapDetf(ErrInput, "top level value must be an object or an array: %T", doc)
	}
	return w.EndPayload()
}

func writeRecordSet(w *odata.Writer, set *odata.RecordSet, items []interface{}, opts *documentOptions) error {
	if err := w.StartRecordSet(set); err != nil {
		return err
	}
	for _, item := range items {
		if err := writeRecord(w, item, opts, false); err != nil {
			return err
		}
	}
	return w.EndRecordSet()
}

func writeRecord(w *odata.Writer, item interface{}, opts *documentOptions, topLevel bool) error {
	if item == nil {
		if err := w.StartRecord(nil); err != nil {
			return err
		}
		return w.EndRecord()
	}
	obj, ok := item.(object)
	if !ok {
		return errors.WrapDetf(ErrInput, "record must be an object: %T", item)
	}

	record := &odata.Record{}
	if topLevel {
		record.TypeName = opts.typeName
		record.SerializationInfo = opts.info
	}
	var relationships, propertyAnnotations []member
	for _, m := range obj {
		switch {
		case strings.HasPrefix(m.name, "@"):
			setRecordAnnotation(record, m.name[1:], m.value)
		case strings.Contains(m.name, "@"):
			propertyAnnotations = append(propertyAnnotations, m)
		case isExpanded(opts, m.name):
			relationships = append(relationships, m)
		default:
			record.Properties = append(record.Properties, &odata.Property{Name: opts.rename(m.name), Value: propertyValue(opts, m.value)})
		}
	}
	for _, m := range propertyAnnotations {
		setPropertyAnnotation(record.Properties, m, opts)
	}

	if err := w.StartRecord(record); err != nil {
		return err
	}
	for _, m := range relationships {
		if err := writeRelationship(w, m, opts); err != nil {
			return err
		}
	}
	return w.EndRecord()
}

func writeRelationship(w *odata.Writer, m member, opts *documentOptions) error {
	rel := &odata.Relationship{Name: opts.rename(m.name)}
	items, isCollection := m.value.([]interface{})
	rel.IsCollection = odata.Bool(isCollection)
	if err := w.StartRelationship(rel); err != nil {
		return err
	}
	var err error
	if isCollection {
		err = writeRecordSet(w, &odata.RecordSet{}, items, opts)
	} else {
		err = writeRecord(w, m.value, opts, false)
	}
	if err != nil {
		return err
	}
	return w.EndRelationship()
}

// setRecordAnnotation sets the record metadata for the known odata annotations or adds the custom instance annotation.
func setRecordAnnotation(record *odata.Record, name string, value interface{}) {
	s, _ := value.(string)
	switch strings.TrimPrefix(name, "odata.") {
	case odata.AnnotationID:
		record.ID = s
	case odata.AnnotationETag:
		record.ETag = s
	case odata.AnnotationEditLink:
		record.EditLink = s
	case odata.AnnotationReadLink:
		record.ReadLink = s
	case odata.AnnotationType:
		record.TypeName = strings.TrimPrefix(s, "#")
	case odata.AnnotationContext, odata.AnnotationNavigationLink, odata.AnnotationAssociationLink:
		// computed by the writer.
	default:
		record.InstanceAnnotations = append(record.InstanceAnnotations, &odata.InstanceAnnotation{Name: name, Value: annotationValue(value)})
	}
}

// setPropertyAnnotation sets the property scoped annotation 'm' i.e. 'Name@NS.term' on the matching property.
// The odata annotations other than the type are computed by the writer and dropped, as are the annotations
// of the relationships and unknown properties.
func setPropertyAnnotation(properties []*odata.Property, m member, opts *documentOptions) {
	at := strings.IndexByte(m.name, '@')
	name, term := opts.rename(m.name[:at]), m.name[at+1:]
	var property *odata.Property
	for _, p := range properties {
		if p.Name == name {
			property = p
			break
		}
	}
	if property == nil {
		log.Debugf("Dropped annotation: '%s' of unknown property: '%s'", term, name)
		return
	}
	if odataTerm := strings.TrimPrefix(term, "odata."); odataTerm != term || !strings.Contains(term, ".") {
		if odataTerm == odata.AnnotationType {
			s, _ := m.value.(string)
			setPropertyTypeName(property, qualifiedTypeName(strings.TrimPrefix(s, "#")))
		}
		return
	}
	property.InstanceAnnotations = append(property.InstanceAnnotations, &odata.InstanceAnnotation{Name: term, Value: annotationValue(m.value)})
}

func setPropertyTypeName(property *odata.Property, typeName string) {
	switch v := property.Value.(type) {
	case *odata.ComplexValue:
		v.TypeName = typeName
	case *odata.CollectionValue:
		v.TypeName = typeName
	default:
		property.TypeName = typeName
	}
}

// qualifiedTypeName adds the 'Edm' namespace to the primitive type names i.e. 'Int64' or 'Collection(Int64)'.
func qualifiedTypeName(typeName string) string {
	if strings.HasPrefix(typeName, "Collection(") && strings.HasSuffix(typeName, ")") {
		return "Collection(" + qualifiedTypeName(typeName[len("Collection("):len(typeName)-1]) + ")"
	}
	if typeName == "" || strings.Contains(typeName, ".") {
		return typeName
	}
	return "Edm." + typeName
}

func isExpanded(opts *documentOptions, name string) bool {
	_, ok := opts.expand[name]
	return ok
}

func (o *documentOptions) rename(name string) string {
	if o.namer == nil {
		return name
	}
	return o.namer(name)
}

// propertyValue converts the document value into the property value.
func propertyValue(opts *documentOptions, value interface{}) interface{} {
	switch v := value.(type) {
	case object:
		complexValue := &odata.ComplexValue{}
		for _, m := range v {
			if strings.Contains(m.name, "@") {
				continue
			}
			complexValue.Properties = append(complexValue.Properties, &odata.Property{Name: opts.rename(m.name), Value: propertyValue(opts, m.value)})
		}
		return complexValue
	case []interface{}:
		collection := &odata.CollectionValue{Items: make([]interface{}, len(v))}
		for i, item := range v {
			collection.Items[i] = propertyValue(opts, item)
		}
		return collection
	}
	return value
}

func annotationValue(value interface{}) interface{} {
	return propertyValue(&documentOptions{}, value)
}
