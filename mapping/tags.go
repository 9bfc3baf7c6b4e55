package mapping

import (
	"reflect"
	"strings"
)

// Struct tag definitions.
const (
	// StructTag is the struct tag key used by the model mapping.
	StructTag = "odata"

	// TagSeparator separates the tags within the struct tag value.
	TagSeparator = ";"
	// ValueSeparator separates the values of a single tag.
	ValueSeparator = ","

	TagKey       = "key"
	TagName      = "name"
	TagType      = "type"
	TagEnum      = "enum"
	TagContained = "contained"
	TagStream    = "stream"
	TagNotNull   = "notnull"
	TagOmit      = "-"
)

// FieldTag is the key: values pair for the given field struct's tag.
type FieldTag struct {
	Key    string
	Values []string
}

// ExtractFieldTags extracts the field tags of the 'field' for the struct tag 'fieldTag'.
// The tagSeparator and valuesSeparator are separator string value defined as follows:
//
//	type Model struct {
//		Field string `fieldTag:"subtag=value1,value2;subtag2"`
//	}                     ^                  ^      ^
//	                   fieldTag     valueSeparator   tagSeparator
func ExtractFieldTags(field reflect.StructField, fieldTag, tagSeparator, valuesSeparator string) []*FieldTag {
	tag, ok := field.Tag.Lookup(fieldTag)
	if !ok {
		return nil
	}
	if tag == TagOmit {
		return []*FieldTag{{Key: TagOmit}}
	}

	var tags []*FieldTag
	for _, option := range splitUnescaped(tag, tagSeparator) {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		fieldTag := &FieldTag{}
		if i := indexUnescaped(option, '='); i > 0 {
			fieldTag.Key = strings.TrimSpace(option[:i])
			fieldTag.Values = strings.Split(option[i+1:], valuesSeparator)
		} else {
			fieldTag.Key = option
		}
		tags = append(tags, fieldTag)
	}
	return tags
}

func extractTags(field reflect.StructField) []*FieldTag {
	return ExtractFieldTags(field, StructTag, TagSeparator, ValueSeparator)
}

func splitUnescaped(s, separator string) []string {
	var (
		parts []string
		last  int
	)
	sep := separator[0]
	for i := 0; i < len(s); i++ {
		if s[i] == sep && (i == 0 || s[i-1] != '\\') {
			parts = append(parts, s[last:i])
			last = i + 1
		}
	}
	return append(parts, s[last:])
}

func indexUnescaped(s string, r byte) int {
	for i := 1; i < len(s); i++ {
		if s[i] == r && s[i-1] != '\\' {
			return i
		}
	}
	return -1
}
