package odata

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neuronlabs/neuron-odata/mapping"
)

// metadataBuilder computes the conventional metadata values of a record. The explicitly set values of the record
// take precedence over the computed ones and are resolved by the writer.
type metadataBuilder interface {
	// id gets the computed record identifier.
	id() string
	// editLink gets the computed edit link.
	editLink() string
	// mediaEditLink gets the computed media resource edit link.
	mediaEditLink() string
	// navigationLink gets the computed link of the relationship 'name'.
	navigationLink(name string) string
	// associationLink gets the computed reference link of the relationship 'name'.
	associationLink(name string) string
	// operationTarget gets the computed target of the bound operation.
	operationTarget(operation string) string
	// operationTitle gets the computed title of the operation.
	operationTitle(operation string) string
	// basePath gets the path of the record used as the base of the nested links. Explicit links are preferred.
	basePath() string
}

// nullMetadataBuilder computes nothing.
type nullMetadataBuilder struct{}

var _ metadataBuilder = nullMetadataBuilder{}

func (nullMetadataBuilder) id() string {
	return ""
}

func (nullMetadataBuilder) editLink() string {
	return ""
}

func (nullMetadataBuilder) mediaEditLink() string {
	return ""
}

func (nullMetadataBuilder) navigationLink(string) string {
	return ""
}

func (nullMetadataBuilder) associationLink(string) string {
	return ""
}

func (nullMetadataBuilder) operationTarget(string) string {
	return ""
}

func (nullMetadataBuilder) operationTitle(string) string {
	return ""
}

func (nullMetadataBuilder) basePath() string {
	return ""
}

// recordContext is the resolved navigation context of the record.
type recordContext struct {
	sourceName     string
	sourceKind     mapping.SourceKind
	sourceTypeName string
	entityType     *mapping.StructType
	keys           []string
	hasStream      bool
}

// conventionalMetadataBuilder computes the links by the OData URL conventions. The links are relative
// to the service root.
type conventionalMetadataBuilder struct {
	record       *Record
	ctx          recordContext
	keyAsSegment bool

	// relationship is the name of the relationship that contains the record.
	relationship string
	isCollection bool
	// parent is the builder of the record that owns the relationship.
	parent metadataBuilder
}

var _ metadataBuilder = &conventionalMetadataBuilder{}

func (b *conventionalMetadataBuilder) id() string {
	return b.canonicalPath()
}

func (b *conventionalMetadataBuilder) editLink() string {
	path := b.canonicalPath()
	if path == "" {
		return ""
	}
	if b.record.TypeName != "" && b.ctx.sourceTypeName != "" && b.record.TypeName != b.ctx.sourceTypeName {
		path += "/" + b.record.TypeName
	}
	return path
}

func (b *conventionalMetadataBuilder) mediaEditLink() string {
	if !b.ctx.hasStream && b.record.Media == nil {
		return ""
	}
	base := b.basePath()
	if base == "" {
		return ""
	}
	return base + "/$value"
}

func (b *conventionalMetadataBuilder) navigationLink(name string) string {
	base := b.basePath()
	if base == "" {
		return ""
	}
	return base + "/" + name
}

func (b *conventionalMetadataBuilder) associationLink(name string) string {
	base := b.basePath()
	if base == "" {
		return ""
	}
	return base + "/" + name + "/$ref"
}

func (b *conventionalMetadataBuilder) operationTarget(operation string) string {
	base := b.basePath()
	if base == "" {
		return ""
	}
	return base + "/" + strings.TrimPrefix(operation, "#")
}

func (b *conventionalMetadataBuilder) operationTitle(operation string) string {
	name := strings.TrimPrefix(operation, "#")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func (b *conventionalMetadataBuilder) basePath() string {
	if b.record.EditLink != "" {
		return b.record.EditLink
	}
	if b.record.ID != "" {
		return b.record.ID
	}
	return b.editLink()
}

// canonicalPath computes the canonical path of the record. Empty if the keys are not known.
func (b *conventionalMetadataBuilder) canonicalPath() string {
	switch {
	case b.ctx.sourceKind == mapping.SingletonSource:
		return b.ctx.sourceName
	case b.parent != nil && b.relationship != "" && b.ctx.sourceKind == mapping.ContainedSource:
		parentPath := b.parent.basePath()
		if parentPath == "" {
			return ""
		}
		if !b.isCollection {
			return parentPath + "/" + b.relationship
		}
		key, ok := b.keySegment()
		if !ok {
			return ""
		}
		return parentPath + "/" + b.relationship + key
	case b.ctx.sourceName != "":
		key, ok := b.keySegment()
		if !ok {
			return ""
		}
		return b.ctx.sourceName + key
	}
	return ""
}

func (b *conventionalMetadataBuilder) keySegment() (string, bool) {
	if len(b.ctx.keys) == 0 {
		return "", false
	}
	values := make([]interface{}, len(b.ctx.keys))
	for i, key := range b.ctx.keys {
		value, ok := propertyValue(b.record.Properties, key)
		if !ok || value == nil {
			return "", false
		}
		values[i] = value
	}
	return formatKey(b.ctx.keys, values, b.keyAsSegment), true
}

func propertyValue(properties []*Property, name string) (interface{}, bool) {
	for _, p := range properties {
		if p != nil && p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// formatKey formats the key segment of the url i.e. '(1)', '(OrderID=1,ItemNo=2)' or '/1'.
func formatKey(names []string, values []interface{}, keyAsSegment bool) string {
	if len(values) == 1 {
		if keyAsSegment {
			return "/" + url.PathEscape(keySegmentValue(values[0]))
		}
		return "(" + keyLiteral(values[0]) + ")"
	}
	var sb strings.Builder
	sb.WriteByte('(')
	for i, name := range names {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(keyLiteral(values[i]))
	}
	sb.WriteByte(')')
	return sb.String()
}

// keyLiteral formats the key value as the url literal. The strings are quoted.
func keyLiteral(value interface{}) string {
	switch v := value.(type) {
	case string:
		return "'" + escapeQuoted(v) + "'"
	case *EnumValue:
		return v.TypeName + "'" + escapeQuoted(v.Value) + "'"
	}
	return url.PathEscape(keySegmentValue(value))
}

// escapeQuoted escapes the quoted literal. The single quotes are doubled.
func escapeQuoted(v string) string {
	return strings.ReplaceAll(url.PathEscape(v), "%27", "''")
}

// keySegmentValue formats the key value without the quotes.
func keySegmentValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return formatFloatKey(float64(v), 32)
	case float64:
		return formatFloatKey(v, 64)
	case json.Number:
		return v.String()
	case uuid.UUID:
		return v.String()
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case *EnumValue:
		return v.Value
	}
	return fmt.Sprint(value)
}

func formatFloatKey(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// prepareForWriteStart selects the metadata builder of the record scope 'sc'. The builder is selected once,
// later calls are no-op.
func (w *Writer) prepareForWriteStart(sc *scope, record *Record, st *recordState) {
	if st.builder != nil {
		return
	}
	if w.settings.MetadataLevel == MetadataNone {
		st.builder = nullMetadataBuilder{}
		return
	}

	ctx, ok := w.resolveRecordContext(sc, record)
	if !ok {
		st.builder = nullMetadataBuilder{}
		return
	}
	b := &conventionalMetadataBuilder{
		record:       record,
		ctx:          ctx,
		keyAsSegment: w.settings.EnableKeyAsSegment,
	}
	if relScope := w.owningRelationshipOf(sc); relScope != nil {
		rel, relState, _ := relScope.relationshipItem()
		b.relationship = rel.Name
		b.isCollection = relState.collection()
		if parentRecord := w.parentRecordOf(relScope); parentRecord != nil && parentRecord.record.builder != nil {
			b.parent = parentRecord.record.builder
		}
	}
	st.builder = b
}

// resolveRecordContext resolves the navigation context of the record from the model or the serialization hints.
func (w *Writer) resolveRecordContext(sc *scope, record *Record) (recordContext, bool) {
	var ctx recordContext
	entityType := sc.record.entityType
	if sc.source != nil {
		ctx.sourceName = sc.source.Name()
		ctx.sourceKind = sc.source.Kind()
		ctx.sourceTypeName = sc.source.EntityType().FullName()
		if entityType == nil {
			entityType = sc.source.EntityType()
		}
	}
	if entityType != nil {
		ctx.entityType = entityType
		ctx.keys = entityType.Keys()
		ctx.hasStream = entityType.HasStream()
		return ctx, true
	}

	info := w.serializationInfo(sc, record)
	if info == nil {
		return ctx, false
	}
	if ctx.sourceName == "" {
		ctx.sourceName = info.NavigationSourceName
		ctx.sourceKind = info.NavigationSourceKind
		if ctx.sourceKind == 0 {
			ctx.sourceKind = mapping.EntitySetSource
		}
		ctx.sourceTypeName = info.NavigationSourceEntityTypeName
	}
	ctx.keys = info.KeyNames
	return ctx, true
}

// serializationInfo gets the serialization hints of the record or the ones inherited from its record set.
func (w *Writer) serializationInfo(sc *scope, record *Record) *SerializationInfo {
	if record.SerializationInfo != nil {
		return record.SerializationInfo
	}
	return w.inheritedSerializationInfo(sc)
}

// inheritedSerializationInfo gets the serialization hints of the record set enclosing the record scope.
func (w *Writer) inheritedSerializationInfo(sc *scope) *SerializationInfo {
	for i := len(w.stack.scopes) - 1; i >= 0; i-- {
		s := w.stack.scopes[i]
		if s == sc {
			continue
		}
		switch s.kind {
		case recordSetScope:
			if set, ok := s.item.(*RecordSet); ok && set != nil {
				return set.SerializationInfo
			}
			return nil
		case relationshipScope, recordScope:
			return nil
		}
	}
	return nil
}
