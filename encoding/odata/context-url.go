package odata

import (
	"strings"

	"github.com/neuronlabs/neuron-odata/mapping"
)

const metadataSegment = "$metadata#"

// contextURL describes the context url of the payload item.
type contextURL struct {
	// path is the navigation path i.e. 'Customers', 'Customers(1)/Orders' or 'Me'.
	path string
	// typeCast is the derived type name appended to the path.
	typeCast string
	// typeName is used when the path is unknown.
	typeName   string
	selectList string

	isSingle    bool
	isSingleton bool
	isDelta     bool
}

// String renders the context url relative to the 'serviceRoot'. An empty string is returned
// when neither the path nor the type is known.
func (c contextURL) String(serviceRoot string) string {
	var sb strings.Builder
	switch {
	case c.path != "":
		sb.WriteString(serviceRoot)
		sb.WriteString(metadataSegment)
		sb.WriteString(c.path)
		if c.typeCast != "" {
			sb.WriteByte('/')
			sb.WriteString(c.typeCast)
		}
		if c.selectList != "" {
			sb.WriteByte('(')
			sb.WriteString(c.selectList)
			sb.WriteByte(')')
		}
		switch {
		case c.isSingle && !c.isSingleton:
			sb.WriteString("/$entity")
		case !c.isSingle && c.isDelta:
			sb.WriteString("/$delta")
		}
	case c.typeName != "":
		sb.WriteString(serviceRoot)
		sb.WriteString(metadataSegment)
		if c.isSingle {
			sb.WriteString(c.typeName)
		} else {
			sb.WriteString(mapping.CollectionTypeName(c.typeName))
		}
		if c.selectList != "" {
			sb.WriteByte('(')
			sb.WriteString(c.selectList)
			sb.WriteByte(')')
		}
	default:
		return ""
	}
	return sb.String()
}

// topLevelContextURL creates the context url of the top level item.
// The 'itemType' is the element type name of the item and 'info' the optional serialization hints.
func (w *Writer) topLevelContextURL(sc *scope, isSingle bool, itemType string, info *SerializationInfo) contextURL {
	c := contextURL{isSingle: isSingle, isDelta: w.settings.WritingDelta}
	if sc.query != nil {
		c.path = sc.query.Path
	}
	if sc.selected != nil {
		c.selectList = sc.selected.contextSelectList()
	}

	var sourceType string
	switch {
	case sc.source != nil:
		if c.path == "" {
			c.path = sourcePath(sc.source)
		}
		c.isSingleton = sc.source.IsSingleton()
		sourceType = sc.source.EntityType().FullName()
	case info != nil && info.NavigationSourceName != "":
		if c.path == "" {
			c.path = info.NavigationSourceName
		}
		c.isSingleton = info.NavigationSourceKind == mapping.SingletonSource
		sourceType = info.NavigationSourceEntityTypeName
	}

	if c.path != "" {
		if itemType != "" && sourceType != "" && itemType != sourceType {
			c.typeCast = itemType
		}
		return c
	}

	switch {
	case itemType != "":
		c.typeName = itemType
	case sc.expectedType != nil:
		c.typeName = sc.expectedType.FullName()
	case info != nil && info.ExpectedTypeName != "":
		c.typeName = info.ExpectedTypeName
	}
	return c
}

// containedContextURL creates the context url of the contained relationship content. The 'parentPath' is the
// path of the record that contains the relationship.
func containedContextURL(parentPath, relationship string, isSingle bool, selected *SelectedProperties) contextURL {
	c := contextURL{isSingle: isSingle}
	if parentPath == "" {
		return c
	}
	c.path = parentPath + "/" + relationship
	if selected != nil {
		c.selectList = selected.contextSelectList()
	}
	return c
}

// sourcePath gets the path of the navigation source. The contained sources are prefixed with the parent path.
func sourcePath(source *mapping.NavigationSource) string {
	if source.IsContained() && source.Parent() != nil {
		return sourcePath(source.Parent()) + "/" + source.Name()
	}
	return source.Name()
}

// elementTypeName strips the 'Collection()' wrapper of the type name.
func elementTypeName(typeName string) string {
	if strings.HasPrefix(typeName, "Collection(") && strings.HasSuffix(typeName, ")") {
		return typeName[len("Collection(") : len(typeName)-1]
	}
	return typeName
}
