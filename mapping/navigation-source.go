package mapping

import (
	"github.com/puzpuzpuz/xsync/v4"
)

// SourceKind is the kind of the navigation source.
type SourceKind int

// Navigation source kinds.
const (
	EntitySetSource SourceKind = iota + 1
	SingletonSource
	ContainedSource
)

// String implements fmt.Stringer interface.
func (k SourceKind) String() string {
	switch k {
	case EntitySetSource:
		return "EntitySet"
	case SingletonSource:
		return "Singleton"
	case ContainedSource:
		return "Contained"
	}
	return "Unknown"
}

// NavigationSource is the addressable source of the entities - an entity set, a singleton
// or the contained navigation source derived from the containment navigation property.
type NavigationSource struct {
	name       string
	kind       SourceKind
	entityType *StructType

	// parent and property are set for the contained navigation sources.
	parent   *NavigationSource
	property *Property

	bindings  *xsync.Map[string, *NavigationSource]
	contained *xsync.Map[string, *NavigationSource]
}

func newNavigationSource(name string, kind SourceKind, entityType *StructType) *NavigationSource {
	return &NavigationSource{
		name:       name,
		kind:       kind,
		entityType: entityType,
		bindings:   xsync.NewMap[string, *NavigationSource](),
		contained:  xsync.NewMap[string, *NavigationSource](),
	}
}

// Name gets the navigation source name.
func (n *NavigationSource) Name() string {
	return n.name
}

// Kind gets the navigation source kind.
func (n *NavigationSource) Kind() SourceKind {
	return n.kind
}

// EntityType gets the entity type of the navigation source.
func (n *NavigationSource) EntityType() *StructType {
	return n.entityType
}

// Parent gets the parent navigation source of the contained source.
func (n *NavigationSource) Parent() *NavigationSource {
	return n.parent
}

// Property gets the containment navigation property of the contained source.
func (n *NavigationSource) Property() *Property {
	return n.property
}

// IsContained checks if the source is a contained navigation source.
func (n *NavigationSource) IsContained() bool {
	return n.kind == ContainedSource
}

// IsSingleton checks if the navigation source is a singleton.
func (n *NavigationSource) IsSingleton() bool {
	return n.kind == SingletonSource
}

// Bind sets the 'target' navigation source for the navigation property 'path'.
func (n *NavigationSource) Bind(path string, target *NavigationSource) *NavigationSource {
	n.bindings.Store(path, target)
	return n
}

// Target gets the navigation source reached by the navigation property with 'name'.
// Containment navigation properties results in contained navigation sources, other properties
// are resolved by the navigation bindings. Returns nil if the target is unknown.
func (n *NavigationSource) Target(name string) *NavigationSource {
	if n.entityType != nil {
		p, ok := n.entityType.Property(name)
		if ok && p.kind == NavigationProperty && p.containsTarget {
			if source, ok := n.contained.Load(name); ok {
				return source
			}
			source := newNavigationSource(name, ContainedSource, p.target)
			source.parent = n
			source.property = p
			source, _ = n.contained.LoadOrStore(name, source)
			return source
		}
	}
	target, _ := n.bindings.Load(name)
	return target
}
