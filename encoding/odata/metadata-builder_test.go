package odata

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/neuronlabs/neuron-odata/mapping"
)

func TestFormatKey(t *testing.T) {
	id := uuid.MustParse("2f5d8a8e-7b1c-4d0c-9a44-91e3b5a0c1d2")
	tests := []struct {
		name         string
		names        []string
		values       []interface{}
		keyAsSegment bool
		expected     string
	}{
		{"Int", []string{"ID"}, []interface{}{1}, false, "(1)"},
		{"String", []string{"ID"}, []interface{}{"O'Neil"}, false, "('O''Neil')"},
		{"Escaped", []string{"ID"}, []interface{}{"a b"}, false, "('a%20b')"},
		{"UUID", []string{"ID"}, []interface{}{id}, false, "(" + id.String() + ")"},
		{"Enum", []string{"Color"}, []interface{}{&EnumValue{TypeName: "NS.Color", Value: "Red"}}, false, "(NS.Color'Red')"},
		{"Composite", []string{"OrderID", "ItemNo"}, []interface{}{int64(1), "a"}, false, "(OrderID=1,ItemNo='a')"},
		{"Segment", []string{"ID"}, []interface{}{"a/b"}, true, "/a%2Fb"},
		{"SegmentInt", []string{"ID"}, []interface{}{uint16(7)}, true, "/7"},
		{"CompositeSegment", []string{"A", "B"}, []interface{}{1, 2}, true, "(A=1,B=2)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, formatKey(tc.names, tc.values, tc.keyAsSegment))
		})
	}
}

func TestConventionalMetadataBuilder(t *testing.T) {
	customers := &conventionalMetadataBuilder{
		record: record(1),
		ctx: recordContext{
			sourceName:     "Customers",
			sourceKind:     mapping.EntitySetSource,
			sourceTypeName: "NS.Customer",
			keys:           []string{"ID"},
		},
	}

	t.Run("Links", func(t *testing.T) {
		assert.Equal(t, "Customers(1)", customers.id())
		assert.Equal(t, "Customers(1)", customers.editLink())
		assert.Equal(t, "", customers.mediaEditLink())
		assert.Equal(t, "Customers(1)/Orders", customers.navigationLink("Orders"))
		assert.Equal(t, "Customers(1)/Orders/$ref", customers.associationLink("Orders"))
		assert.Equal(t, "Customers(1)/NS.Approve", customers.operationTarget("#NS.Approve"))
		assert.Equal(t, "Approve", customers.operationTitle("#NS.Approve"))
	})

	t.Run("ExplicitBase", func(t *testing.T) {
		rec := record(1)
		rec.ID = "http://host/Customers(1)"
		b := &conventionalMetadataBuilder{record: rec, ctx: customers.ctx}
		assert.Equal(t, "http://host/Customers(1)/Orders", b.navigationLink("Orders"))

		rec.EditLink = "edit"
		assert.Equal(t, "edit/Orders", b.navigationLink("Orders"))
	})

	t.Run("MissingKey", func(t *testing.T) {
		b := &conventionalMetadataBuilder{record: &Record{}, ctx: customers.ctx}
		assert.Equal(t, "", b.id())
		assert.Equal(t, "", b.navigationLink("Orders"))
	})

	t.Run("Contained", func(t *testing.T) {
		note := &conventionalMetadataBuilder{
			record:       record(7),
			ctx:          recordContext{sourceName: "Notes", sourceKind: mapping.ContainedSource, keys: []string{"ID"}},
			relationship: "Notes",
			isCollection: true,
			parent:       customers,
		}
		assert.Equal(t, "Customers(1)/Notes(7)", note.id())

		note.isCollection = false
		assert.Equal(t, "Customers(1)/Notes", note.id())
	})

	t.Run("Media", func(t *testing.T) {
		rec := record(1)
		rec.Media = &StreamReference{}
		b := &conventionalMetadataBuilder{record: rec, ctx: customers.ctx}
		assert.Equal(t, "Customers(1)/$value", b.mediaEditLink())
	})

	t.Run("Null", func(t *testing.T) {
		var b metadataBuilder = nullMetadataBuilder{}
		assert.Equal(t, "", b.id())
		assert.Equal(t, "", b.basePath())
		assert.Equal(t, "", b.operationTarget("#NS.Approve"))
		assert.Equal(t, "", b.operationTitle("#NS.Approve"))
		assert.Equal(t, "", b.editLink())
		assert.Equal(t, "", b.mediaEditLink())
		assert.Equal(t, "", b.navigationLink("Orders"))
		assert.Equal(t, "", b.associationLink("Orders"))
	})
}
