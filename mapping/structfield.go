package mapping

// PropertyKind is the kind of the structural type property.
type PropertyKind int

// Property kinds enumerators.
const (
	UnknownProperty PropertyKind = iota
	PrimitiveProperty
	ComplexProperty
	EnumProperty
	NavigationProperty
	StreamProperty
)

// String implements fmt.Stringer interface.
func (k PropertyKind) String() string {
	switch k {
	case PrimitiveProperty:
		return "Primitive"
	case ComplexProperty:
		return "Complex"
	case EnumProperty:
		return "Enum"
	case NavigationProperty:
		return "Navigation"
	case StreamProperty:
		return "Stream"
	}
	return "Unknown"
}

// Property is the declared property of the structural type.
type Property struct {
	name           string
	kind           PropertyKind
	typeName       string
	target         *StructType
	collection     bool
	containsTarget bool
	nullable       bool

	// index is the go struct field index for the reflection mapped types.
	index []int
}

// Primitive creates new primitive property with given 'name' and primitive 'typeName' i.e. 'Edm.String'.
func Primitive(name, typeName string) *Property {
	return &Property{name: name, kind: PrimitiveProperty, typeName: typeName, nullable: true}
}

// PrimitiveCollection creates new collection of primitive values property.
func PrimitiveCollection(name, typeName string) *Property {
	return &Property{name: name, kind: PrimitiveProperty, typeName: typeName, collection: true}
}

// Enum creates new enum property with given enum 'typeName'.
func Enum(name, typeName string) *Property {
	return &Property{name: name, kind: EnumProperty, typeName: typeName, nullable: true}
}

// Complex creates new complex property of the 'complex' type.
func Complex(name string, complex *StructType) *Property {
	return &Property{name: name, kind: ComplexProperty, typeName: complex.FullName(), target: complex, nullable: true}
}

// ComplexCollection creates new collection of complex values property.
func ComplexCollection(name string, complex *StructType) *Property {
	return &Property{name: name, kind: ComplexProperty, typeName: complex.FullName(), target: complex, collection: true}
}

// Navigation creates new single-valued navigation property to the 'target' entity type.
func Navigation(name string, target *StructType) *Property {
	return &Property{name: name, kind: NavigationProperty, typeName: target.FullName(), target: target, nullable: true}
}

// NavigationCollection creates new collection-valued navigation property to the 'target' entity type.
func NavigationCollection(name string, target *StructType) *Property {
	return &Property{name: name, kind: NavigationProperty, typeName: target.FullName(), target: target, collection: true}
}

// Stream creates new named stream property.
func Stream(name string) *Property {
	return &Property{name: name, kind: StreamProperty, typeName: "Edm.Stream"}
}

// Contained marks the navigation property as the one that contains it's target.
func (p *Property) Contained() *Property {
	p.containsTarget = true
	return p
}

// NotNull marks the property as non nullable.
func (p *Property) NotNull() *Property {
	p.nullable = false
	return p
}

// Name gets the property name.
func (p *Property) Name() string {
	return p.name
}

// Kind gets the property kind.
func (p *Property) Kind() PropertyKind {
	return p.kind
}

// TypeName gets the property element full type name.
func (p *Property) TypeName() string {
	return p.typeName
}

// FullTypeName gets the property type name including the collection wrapper.
func (p *Property) FullTypeName() string {
	if p.collection {
		return CollectionTypeName(p.typeName)
	}
	return p.typeName
}

// Target gets the structural type of the complex or navigation property.
func (p *Property) Target() *StructType {
	return p.target
}

// IsCollection checks if the property is collection valued.
func (p *Property) IsCollection() bool {
	return p.collection
}

// IsNavigation checks if the property is a navigation property.
func (p *Property) IsNavigation() bool {
	return p.kind == NavigationProperty
}

// ContainsTarget checks if the navigation property is a containment navigation property.
func (p *Property) ContainsTarget() bool {
	return p.containsTarget
}

// IsNullable checks if the property might be null.
func (p *Property) IsNullable() bool {
	return p.nullable
}

// CollectionTypeName wraps the 'typeName' in the 'Collection()'.
func CollectionTypeName(typeName string) string {
	return "Collection(" + typeName + ")"
}
