package mapping

import (
	"reflect"

	"github.com/neuronlabs/neuron-odata/errors"
)

// TypeKind is the kind of the structural type.
type TypeKind int

// Structural type kinds.
const (
	EntityKind TypeKind = iota + 1
	ComplexKind
)

// String implements fmt.Stringer interface.
func (k TypeKind) String() string {
	switch k {
	case EntityKind:
		return "Entity"
	case ComplexKind:
		return "Complex"
	}
	return "Unknown"
}

// StructType is the structural type definition - an entity or a complex type.
type StructType struct {
	namespace string
	name      string
	kind      TypeKind
	base      *StructType

	keys       []string
	properties []*Property
	byName     map[string]*Property

	open      bool
	hasStream bool
	abstract  bool

	// goType is the reflect type of the mapped go struct. Nil for the types created by the builder functions.
	goType reflect.Type
}

// NewEntityType creates new entity type in the 'namespace' with provided 'name' and 'keys' property names.
func NewEntityType(namespace, name string, keys ...string) *StructType {
	return newStructType(namespace, name, EntityKind, keys)
}

// NewComplexType creates new complex type in the 'namespace' with provided 'name'.
func NewComplexType(namespace, name string) *StructType {
	return newStructType(namespace, name, ComplexKind, nil)
}

func newStructType(namespace, name string, kind TypeKind, keys []string) *StructType {
	return &StructType{
		namespace: namespace,
		name:      name,
		kind:      kind,
		keys:      keys,
		byName:    map[string]*Property{},
	}
}

// WithBase sets the 'base' type for given structural type.
func (s *StructType) WithBase(base *StructType) *StructType {
	s.base = base
	return s
}

// SetOpen marks the type as an open type.
func (s *StructType) SetOpen() *StructType {
	s.open = true
	return s
}

// SetHasStream marks the entity type as a media entity type.
func (s *StructType) SetHasStream() *StructType {
	s.hasStream = true
	return s
}

// SetAbstract marks the type as abstract.
func (s *StructType) SetAbstract() *StructType {
	s.abstract = true
	return s
}

// AddProperty adds the property 'p' to the structural type.
// The property name must be unique within the type and its base types.
func (s *StructType) AddProperty(p *Property) error {
	if _, ok := s.Property(p.name); ok {
		return errors.WrapDetf(ErrDuplicateProperty, "property: '%s' already defined in the type: '%s'", p.name, s.FullName())
	}
	s.properties = append(s.properties, p)
	s.byName[p.name] = p
	return nil
}

// MustAddProperties adds all the properties to the type. Panics on error.
func (s *StructType) MustAddProperties(properties ...*Property) *StructType {
	for _, p := range properties {
		if err := s.AddProperty(p); err != nil {
			panic(err)
		}
	}
	return s
}

// Namespace gets the type namespace.
func (s *StructType) Namespace() string {
	return s.namespace
}

// Name gets the type name without the namespace.
func (s *StructType) Name() string {
	return s.name
}

// FullName gets the namespace qualified name of the type.
func (s *StructType) FullName() string {
	if s.namespace == "" {
		return s.name
	}
	return s.namespace + "." + s.name
}

// Kind gets the type kind.
func (s *StructType) Kind() TypeKind {
	return s.kind
}

// IsEntity checks if the type is an entity type.
func (s *StructType) IsEntity() bool {
	return s.kind == EntityKind
}

// Base gets the base type.
func (s *StructType) Base() *StructType {
	return s.base
}

// IsOpen checks if the type or any of its base types is open.
func (s *StructType) IsOpen() bool {
	for t := s; t != nil; t = t.base {
		if t.open {
			return true
		}
	}
	return false
}

// HasStream checks if the entity type is a media entity type.
func (s *StructType) HasStream() bool {
	for t := s; t != nil; t = t.base {
		if t.hasStream {
			return true
		}
	}
	return false
}

// IsAbstract checks if the type is abstract.
func (s *StructType) IsAbstract() bool {
	return s.abstract
}

// Keys gets the key property names. The keys are inherited from the base types.
func (s *StructType) Keys() []string {
	for t := s; t != nil; t = t.base {
		if len(t.keys) > 0 {
			return t.keys
		}
	}
	return nil
}

// Property gets the property by its 'name', including the ones declared on the base types.
func (s *StructType) Property(name string) (*Property, bool) {
	for t := s; t != nil; t = t.base {
		if p, ok := t.byName[name]; ok {
			return p, true
		}
	}
	return nil, false
}

// Properties gets all the declared properties in the declaration order. Base type properties goes first.
func (s *StructType) Properties() []*Property {
	var properties []*Property
	if s.base != nil {
		properties = s.base.Properties()
	}
	return append(properties, s.properties...)
}

// NavigationProperties gets all the navigation properties of the type.
func (s *StructType) NavigationProperties() []*Property {
	var navigation []*Property
	for _, p := range s.Properties() {
		if p.kind == NavigationProperty {
			navigation = append(navigation, p)
		}
	}
	return navigation
}

// IsAssignableTo checks if the type is the 'other' type or derives from it.
func (s *StructType) IsAssignableTo(other *StructType) bool {
	if other == nil {
		return false
	}
	for t := s; t != nil; t = t.base {
		if t == other || t.FullName() == other.FullName() {
			return true
		}
	}
	return false
}

// GoType gets the mapped go struct type. Nil if the type was not mapped from the go struct.
func (s *StructType) GoType() reflect.Type {
	return s.goType
}

func (s *StructType) validate() error {
	if s.kind != EntityKind || s.abstract {
		return nil
	}
	keys := s.Keys()
	if len(keys) == 0 {
		return errors.WrapDetf(ErrInvalidKey, "entity type: '%s' has no key defined", s.FullName())
	}
	for _, key := range keys {
		p, ok := s.Property(key)
		if !ok {
			return errors.WrapDetf(ErrInvalidKey, "entity type: '%s' key property: '%s' not found", s.FullName(), key)
		}
		if p.kind != PrimitiveProperty && p.kind != EnumProperty || p.collection {
			return errors.WrapDetf(ErrInvalidKey, "entity type: '%s' key property: '%s' must be a single primitive value", s.FullName(), key)
		}
	}
	return nil
}
