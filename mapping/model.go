package mapping

import (
	"reflect"
	"sort"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/neuronlabs/neuron-odata/errors"
	"github.com/neuronlabs/neuron-odata/log"
)

// Model is the registry of the structural types and the navigation sources of a single service.
// It is safe for concurrent registration and lookup, so that a single model might back multiple writers.
type Model struct {
	namespace string
	options   *ModelOptions

	types      *xsync.Map[string, *StructType]
	goTypes    *xsync.Map[reflect.Type, *StructType]
	sources    *xsync.Map[string, *NavigationSource]
	setsByType *xsync.Map[string, *NavigationSource]
}

// NewModel creates new model registry for the 'namespace'.
func NewModel(namespace string, options ...ModelOption) *Model {
	o := &ModelOptions{NamingConvention: LowerCamelCase}
	for _, option := range options {
		option(o)
	}
	return &Model{
		namespace:  namespace,
		options:    o,
		types:      xsync.NewMap[string, *StructType](),
		goTypes:    xsync.NewMap[reflect.Type, *StructType](),
		sources:    xsync.NewMap[string, *NavigationSource](),
		setsByType: xsync.NewMap[string, *NavigationSource](),
	}
}

// Namespace gets the model default namespace.
func (m *Model) Namespace() string {
	return m.namespace
}

// NamingConvention gets the naming convention used by the model.
func (m *Model) NamingConvention() NamingConvention {
	return m.options.NamingConvention
}

// RegisterTypes registers the structural 'types' within the model.
func (m *Model) RegisterTypes(types ...*StructType) error {
	for _, t := range types {
		if err := t.validate(); err != nil {
			return err
		}
		if _, loaded := m.types.LoadOrStore(t.FullName(), t); loaded {
			return errors.WrapDetf(ErrTypeAlreadyRegistered, "type: '%s' already registered", t.FullName())
		}
		if log.CurrentLevel().IsAllowed(log.LevelDebug3) {
			log.Debug3f("Registered %s type: '%s'", t.kind, t.FullName())
		}
	}
	return nil
}

// Type gets the registered structural type by its namespace qualified name.
func (m *Model) Type(fullName string) (*StructType, bool) {
	return m.types.Load(fullName)
}

// TypeOf gets the structural type mapped from the go 'model'.
func (m *Model) TypeOf(model interface{}) (*StructType, bool) {
	t := reflect.TypeOf(model)
	if t == nil {
		return nil, false
	}
	return m.goTypes.Load(indirectType(t))
}

// Types returns all types registered within the model ordered by their names.
func (m *Model) Types() []*StructType {
	var types []*StructType
	m.types.Range(func(_ string, t *StructType) bool {
		types = append(types, t)
		return true
	})
	sort.Slice(types, func(i, j int) bool {
		return types[i].FullName() < types[j].FullName()
	})
	return types
}

// AddEntitySet adds the entity set with given 'name' for the registered 'entityType'.
func (m *Model) AddEntitySet(name string, entityType *StructType) (*NavigationSource, error) {
	return m.addSource(name, EntitySetSource, entityType)
}

// AddSingleton adds the singleton with given 'name' for the registered 'entityType'.
func (m *Model) AddSingleton(name string, entityType *StructType) (*NavigationSource, error) {
	return m.addSource(name, SingletonSource, entityType)
}

func (m *Model) addSource(name string, kind SourceKind, entityType *StructType) (*NavigationSource, error) {
	if entityType == nil || !entityType.IsEntity() {
		return nil, errors.WrapDetf(ErrNavigationSource, "%s: '%s' requires an entity type", kind, name)
	}
	if _, ok := m.types.Load(entityType.FullName()); !ok {
		return nil, errors.WrapDetf(ErrTypeNotFound, "%s: '%s' entity type: '%s' is not registered", kind, name, entityType.FullName())
	}
	source := newNavigationSource(name, kind, entityType)
	if _, loaded := m.sources.LoadOrStore(name, source); loaded {
		return nil, errors.WrapDetf(ErrNavigationSource, "navigation source: '%s' already exists", name)
	}
	if kind == EntitySetSource {
		m.setsByType.LoadOrStore(entityType.FullName(), source)
	}
	return source, nil
}

// NavigationSource gets the entity set or singleton by its 'name'.
func (m *Model) NavigationSource(name string) (*NavigationSource, bool) {
	return m.sources.Load(name)
}

// EntitySetFor gets the first entity set registered for the entity type 't'.
func (m *Model) EntitySetFor(t *StructType) (*NavigationSource, bool) {
	if t == nil {
		return nil, false
	}
	return m.setsByType.Load(t.FullName())
}
