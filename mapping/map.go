package mapping

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/inflection"

	"github.com/neuronlabs/neuron-odata/errors"
	"github.com/neuronlabs/neuron-odata/log"
)

// EntitySetNamer is the interface used to set the entity set name of the mapped model.
type EntitySetNamer interface {
	EntitySetName() string
}

// MediaEntity is the interface implemented by the models that are media entities.
type MediaEntity interface {
	HasStream() bool
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	uuidType     = reflect.TypeOf(uuid.UUID{})
	bytesType    = reflect.TypeOf([]byte(nil))
)

// RegisterModels maps the go struct 'models' into the structural types, registers them within the model
// and creates entity sets for all mapped entity types.
// A struct is an entity type if any of its fields is tagged with `odata:"key"` or it has the 'ID' field.
// Entity set names are the pluralized type names with the model naming convention applied, unless the model
// implements EntitySetNamer.
func (m *Model) RegisterModels(models ...interface{}) error {
	mapped := make([]*StructType, 0, len(models))
	instances := map[*StructType]interface{}{}
	for _, model := range models {
		t := reflect.TypeOf(model)
		if t == nil || indirectType(t).Kind() != reflect.Struct {
			return errors.WrapDetf(ErrModel, "model: '%T' is not a struct", model)
		}
		t = indirectType(t)
		if _, ok := m.goTypes.Load(t); ok {
			return errors.WrapDetf(ErrTypeAlreadyRegistered, "model: '%s' already registered", t.Name())
		}
		st := m.newGoStructType(t)
		if media, ok := model.(MediaEntity); ok && media.HasStream() {
			st.SetHasStream()
		}
		m.goTypes.Store(t, st)
		mapped = append(mapped, st)
		instances[st] = model
	}

	for _, st := range mapped {
		if err := m.mapFields(st); err != nil {
			return err
		}
	}

	for _, st := range mapped {
		if err := m.RegisterTypes(st); err != nil {
			return err
		}
		if !st.IsEntity() {
			continue
		}
		name := m.entitySetName(st, instances[st])
		if _, ok := m.sources.Load(name); ok {
			continue
		}
		if _, err := m.AddEntitySet(name, st); err != nil {
			return err
		}
	}

	// Bind non-contained navigation properties to the entity sets of their targets.
	for _, st := range mapped {
		source, ok := m.EntitySetFor(st)
		if !ok {
			continue
		}
		for _, p := range st.NavigationProperties() {
			if p.containsTarget {
				continue
			}
			if target, ok := m.EntitySetFor(p.target); ok {
				source.Bind(p.name, target)
			}
		}
	}
	return nil
}

func (m *Model) entitySetName(st *StructType, model interface{}) string {
	if namer, ok := model.(EntitySetNamer); ok {
		return namer.EntitySetName()
	}
	return m.options.NamingConvention.Namer(inflection.Plural(st.name))
}

func (m *Model) newGoStructType(t reflect.Type) *StructType {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		for _, tag := range extractTags(field) {
			if tag.Key == TagKey {
				keys = append(keys, m.fieldName(field))
			}
		}
	}
	if len(keys) == 0 {
		if field, ok := t.FieldByName("ID"); ok && len(field.Index) == 1 && !isOmitted(field) {
			keys = append(keys, m.fieldName(field))
		}
	}
	var st *StructType
	if len(keys) > 0 {
		st = NewEntityType(m.namespace, t.Name(), keys...)
	} else {
		st = NewComplexType(m.namespace, t.Name())
	}
	st.goType = t
	return st
}

func (m *Model) mapFields(st *StructType) error {
	t := st.goType
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" || isOmitted(field) {
			continue
		}
		p, err := m.mapField(st, field)
		if err != nil {
			return err
		}
		if p == nil {
			continue
		}
		p.index = field.Index
		if err = st.AddProperty(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) mapField(st *StructType, field reflect.StructField) (*Property, error) {
	name := m.fieldName(field)
	var (
		typeName, enumName         string
		contained, stream, notNull bool
	)
	for _, tag := range extractTags(field) {
		switch tag.Key {
		case TagType:
			typeName = firstValue(tag)
		case TagEnum:
			enumName = firstValue(tag)
		case TagContained:
			contained = true
		case TagStream:
			stream = true
		case TagNotNull:
			notNull = true
		case TagKey, TagName:
		default:
			log.Debugf("Model: '%s' field: '%s' unknown tag: '%s'", st.name, field.Name, tag.Key)
		}
	}
	if stream {
		return Stream(name), nil
	}

	ft := field.Type
	isPtr := ft.Kind() == reflect.Ptr
	ft = indirectType(ft)
	isCollection := ft.Kind() == reflect.Slice && ft != bytesType
	elem := ft
	if isCollection {
		elem = indirectType(ft.Elem())
	}

	var p *Property
	switch {
	case enumName != "":
		p = Enum(name, enumName)
		p.collection = isCollection
	case typeName != "":
		p = Primitive(name, typeName)
		p.collection = isCollection
	case elem.Kind() == reflect.Struct && elem != timeType:
		target, err := m.structTypeFor(elem)
		if err != nil {
			return nil, err
		}
		switch {
		case target.IsEntity() && isCollection:
			p = NavigationCollection(name, target)
		case target.IsEntity():
			p = Navigation(name, target)
		case isCollection:
			p = ComplexCollection(name, target)
		default:
			p = Complex(name, target)
		}
		if contained {
			if !p.IsNavigation() {
				return nil, errors.WrapDetf(ErrInvalidModelField, "model: '%s' field: '%s' only navigation properties might be contained", st.name, field.Name)
			}
			p.Contained()
		}
	default:
		edmType, ok := primitiveTypeName(elem)
		if !ok {
			return nil, errors.WrapDetf(ErrInvalidModelField, "model: '%s' field: '%s' unsupported type: '%s'", st.name, field.Name, field.Type)
		}
		if isCollection {
			p = PrimitiveCollection(name, edmType)
		} else {
			p = Primitive(name, edmType)
		}
	}
	if !p.collection && (notNull || (m.options.DefaultNotNull && !isPtr)) {
		p.NotNull()
	}
	return p, nil
}

// structTypeFor gets the struct type for the go struct 't'. Unregistered structs are mapped as complex types.
func (m *Model) structTypeFor(t reflect.Type) (*StructType, error) {
	if st, ok := m.goTypes.Load(t); ok {
		return st, nil
	}
	st := NewComplexType(m.namespace, t.Name())
	st.goType = t
	m.goTypes.Store(t, st)
	if err := m.mapFields(st); err != nil {
		return nil, err
	}
	if err := m.RegisterTypes(st); err != nil {
		return nil, err
	}
	return st, nil
}

func (m *Model) fieldName(field reflect.StructField) string {
	for _, tag := range extractTags(field) {
		if tag.Key == TagName && len(tag.Values) > 0 {
			return tag.Values[0]
		}
	}
	return m.options.NamingConvention.Namer(field.Name)
}

func primitiveTypeName(t reflect.Type) (string, bool) {
	switch t {
	case timeType:
		return "Edm.DateTimeOffset", true
	case durationType:
		return "Edm.Duration", true
	case uuidType:
		return "Edm.Guid", true
	case bytesType:
		return "Edm.Binary", true
	}
	switch t.Kind() {
	case reflect.String:
		return "Edm.String", true
	case reflect.Bool:
		return "Edm.Boolean", true
	case reflect.Int8:
		return "Edm.SByte", true
	case reflect.Uint8:
		return "Edm.Byte", true
	case reflect.Int16:
		return "Edm.Int16", true
	case reflect.Int32, reflect.Uint16:
		return "Edm.Int32", true
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return "Edm.Int64", true
	case reflect.Float32:
		return "Edm.Single", true
	case reflect.Float64:
		return "Edm.Double", true
	}
	return "", false
}

func isOmitted(field reflect.StructField) bool {
	tags := extractTags(field)
	return len(tags) == 1 && tags[0].Key == TagOmit
}

func firstValue(tag *FieldTag) string {
	if len(tag.Values) == 0 {
		return ""
	}
	return strings.TrimSpace(tag.Values[0])
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
