package odata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/neuron-odata/errors"
)

func TestWriteExpandedRelationship(t *testing.T) {
	m := testModel(t)

	t.Run("RecordSet", func(t *testing.T) {
		w, buf := testWriter(responseSettings(t, m, "Customers"))
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Orders"}),
			w.StartRecordSet(&RecordSet{Count: Int64(1), NextLink: "Customers(1)/Orders?$skip=1"}),
			w.StartRecord(record(5)), w.EndRecord(),
			w.EndRecordSet(),
			w.EndRelationship(),
			w.EndRecord(),
			w.EndPayload(),
		)
		assert.Equal(t, `{"@odata.context":"$metadata#Customers/$entity","ID":1,"Orders@odata.count":1,`+
			`"Orders@odata.nextLink":"Customers(1)/Orders?$skip=1","Orders":[{"ID":5}]}`, flushed(t, w, buf))
	})

	t.Run("LateNextLink", func(t *testing.T) {
		w, buf := testWriter(responseSettings(t, m, "Customers"))
		set := &RecordSet{}
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Orders"}),
			w.StartRecordSet(set),
		)
		set.NextLink = "next"
		must(t,
			w.EndRecordSet(),
			w.EndRelationship(),
			w.EndRecord(),
			w.EndPayload(),
		)
		assert.Equal(t, `{"@odata.context":"$metadata#Customers/$entity","ID":1,"Orders":[],"Orders@odata.nextLink":"next"}`, flushed(t, w, buf))
	})

	t.Run("DerivedSetType", func(t *testing.T) {
		w, buf := testWriter(responseSettings(t, m, "Customers"))
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Orders"}),
			w.StartRecordSet(&RecordSet{TypeName: "Collection(NS.Customer)"}),
			w.EndRecordSet(),
			w.EndRelationship(),
			w.EndRecord(),
			w.EndPayload(),
		)
		assert.Equal(t, `{"@odata.context":"$metadata#Customers/$entity","ID":1,"Orders@odata.type":"#Collection(NS.Customer)","Orders":[]}`, flushed(t, w, buf))
	})

	t.Run("UndeclaredSetType", func(t *testing.T) {
		m := testModel(t)
		testSource(t, m, "Customers").Bind("Extras", testSource(t, m, "Orders"))
		w, buf := testWriter(responseSettings(t, m, "Customers"))
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Extras", IsCollection: Bool(true)}),
			w.StartRecordSet(&RecordSet{TypeName: "Collection(NS.Order)"}),
			w.EndRecordSet(),
			w.EndRelationship(),
			w.EndRecord(),
			w.EndPayload(),
		)
		// the bound target type is known, but the relationship isn't declared by the record type.
		assert.Equal(t, `{"@odata.context":"$metadata#Customers/$entity","ID":1,"Extras@odata.type":"#Collection(NS.Order)","Extras":[]}`, flushed(t, w, buf))
	})

	t.Run("SingleRecord", func(t *testing.T) {
		settings := responseSettings(t, m, "Customers")
		settings.MetadataLevel = MetadataFull
		w, buf := testWriter(settings)
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "BestFriend"}),
			w.StartRecord(record(2)), w.EndRecord(),
			w.EndRelationship(),
			w.EndRecord(),
			w.EndPayload(),
		)
		assert.Contains(t, flushed(t, w, buf), `"BestFriend@odata.associationLink":"Customers(1)/BestFriend/$ref",`+
			`"BestFriend@odata.navigationLink":"Customers(1)/BestFriend","BestFriend":{"@odata.type":"#NS.Customer",`+
			`"@odata.id":"Customers(2)","@odata.editLink":"Customers(2)","ID":2,`)
	})

	t.Run("DeltaLinkNotAllowed", func(t *testing.T) {
		rec := &recorder{}
		settings := responseSettings(t, m, "Customers")
		settings.MetadataLevel = MetadataFull
		w := NewWriter(nil, settings, WithTokenWriter(rec))
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Orders"}),
		)
		before := append([]string(nil), rec.tokens...)

		err := w.StartRecordSet(&RecordSet{DeltaLink: "d"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrExpandedSetMetadataNotAllowed))
		assert.True(t, errors.Is(err, ErrUnsupportedAnnotation))
		// neither the link metadata of the deferred relationship nor the set is written.
		assert.Equal(t, before, rec.tokens)
		assert.NotContains(t, rec.tokens, "name:Orders@odata.navigationLink")
	})

	t.Run("AnnotationsNotAllowed", func(t *testing.T) {
		rec := &recorder{}
		w := NewWriter(nil, responseSettings(t, m, "Customers"), WithTokenWriter(rec))
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Orders", URL: "Customers(1)/Orders"}),
		)
		before := append([]string(nil), rec.tokens...)

		err := w.StartRecordSet(&RecordSet{InstanceAnnotations: []*InstanceAnnotation{{Name: "NS.a", Value: 1}}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrExpandedSetMetadataNotAllowed))
		assert.Equal(t, before, rec.tokens)
		assert.NotContains(t, rec.tokens, "name:Orders@odata.navigationLink")
	})

	t.Run("SecondRecordSetInResponse", func(t *testing.T) {
		w, _ := testWriter(responseSettings(t, m, "Customers"))
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Orders"}),
			w.StartRecordSet(&RecordSet{}),
			w.EndRecordSet(),
		)
		err := w.StartRecordSet(&RecordSet{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrState))
	})
}

func TestWriteDeferredRelationship(t *testing.T) {
	m := testModel(t)

	t.Run("Full", func(t *testing.T) {
		settings := responseSettings(t, m, "Customers")
		settings.MetadataLevel = MetadataFull
		w, buf := testWriter(settings)
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Orders"}),
			w.EndRelationship(),
			w.EndRecord(),
			w.EndPayload(),
		)
		assert.Equal(t, `{"@odata.context":"$metadata#Customers/$entity","@odata.type":"#NS.Customer","@odata.id":"Customers(1)",`+
			`"@odata.editLink":"Customers(1)","ID":1,"Orders@odata.associationLink":"Customers(1)/Orders/$ref",`+
			`"Orders@odata.navigationLink":"Customers(1)/Orders","BestFriend@odata.navigationLink":"Customers(1)/BestFriend",`+
			`"Notes@odata.navigationLink":"Customers(1)/Notes"}`, flushed(t, w, buf))
	})

	t.Run("MinimalExplicit", func(t *testing.T) {
		w, buf := testWriter(responseSettings(t, m, "Customers"))
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Orders", URL: "nav", AssociationLinkURL: "assoc"}),
			w.EndRelationship(),
			w.EndRecord(),
			w.EndPayload(),
		)
		assert.Equal(t, `{"@odata.context":"$metadata#Customers/$entity","ID":1,"Orders@odata.associationLink":"assoc",`+
			`"Orders@odata.navigationLink":"nav"}`, flushed(t, w, buf))
	})

	t.Run("MinimalComputed", func(t *testing.T) {
		w, buf := testWriter(responseSettings(t, m, "Customers"))
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Orders"}),
			w.EndRelationship(),
			w.EndRecord(),
			w.EndPayload(),
		)
		assert.Equal(t, `{"@odata.context":"$metadata#Customers/$entity","ID":1}`, flushed(t, w, buf))
	})
}

func TestWriteContainedRelationship(t *testing.T) {
	m := testModel(t)

	t.Run("Minimal", func(t *testing.T) {
		w, buf := testWriter(responseSettings(t, m, "Customers"))
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Notes"}),
			w.StartRecordSet(&RecordSet{}),
			w.StartRecord(record(7)), w.EndRecord(),
			w.EndRecordSet(),
			w.EndRelationship(),
			w.EndRecord(),
			w.EndPayload(),
		)
		assert.Equal(t, `{"@odata.context":"$metadata#Customers/$entity","ID":1,"Notes@odata.context":"$metadata#Customers(1)/Notes",`+
			`"Notes":[{"ID":7}]}`, flushed(t, w, buf))
	})

	t.Run("FullComputedID", func(t *testing.T) {
		settings := responseSettings(t, m, "Customers")
		settings.MetadataLevel = MetadataFull
		w, buf := testWriter(settings)
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Notes"}),
			w.StartRecordSet(&RecordSet{}),
			w.StartRecord(record(7)), w.EndRecord(),
			w.EndRecordSet(),
			w.EndRelationship(),
			w.EndRecord(),
			w.EndPayload(),
		)
		assert.Contains(t, flushed(t, w, buf), `"Notes":[{"@odata.type":"#NS.Note","@odata.id":"Customers(1)/Notes(7)",`+
			`"@odata.editLink":"Customers(1)/Notes(7)","ID":7}]`)
	})
}

func TestWriteSelectedRelationship(t *testing.T) {
	m := testModel(t)

	t.Run("NotSelected", func(t *testing.T) {
		settings := responseSettings(t, m, "Customers")
		settings.Query = &QueryContext{Select: Select("ID")}
		w, buf := testWriter(settings)
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Orders"}),
			w.StartRecordSet(&RecordSet{Count: Int64(1)}),
			w.StartRecord(record(5)), w.EndRecord(),
			w.EndRecordSet(),
			w.EndRelationship(),
			w.EndRecord(),
			w.EndPayload(),
		)
		assert.Equal(t, `{"@odata.context":"$metadata#Customers(ID)/$entity","ID":1}`, flushed(t, w, buf))
	})

	t.Run("Expanded", func(t *testing.T) {
		selected, err := ParseSelect("ID,Orders(ID)")
		require.NoError(t, err)
		settings := responseSettings(t, m, "Customers")
		settings.Query = &QueryContext{Select: selected}
		w, buf := testWriter(settings)
		must(t,
			w.StartPayload(),
			w.StartRecord(record(1)),
			w.StartRelationship(&Relationship{Name: "Orders"}),
			w.StartRecordSet(&RecordSet{}),
			w.StartRecord(record(5)), w.EndRecord(),
			w.EndRecordSet(),
			w.EndRelationship(),
			w.StartRelationship(&Relationship{Name: "BestFriend"}),
			w.StartRecord(record(2)), w.EndRecord(),
			w.EndRelationship(),
			w.EndRecord(),
			w.EndPayload(),
		)
		assert.Equal(t, `{"@odata.context":"$metadata#Customers(ID,Orders(ID))/$entity","ID":1,"Orders":[{"ID":5}]}`, flushed(t, w, buf))
	})

	t.Run("FullNavigationLinks", func(t *testing.T) {
		settings := responseSettings(t, m, "Customers")
		settings.MetadataLevel = MetadataFull
		settings.Query = &QueryContext{Select: Select("ID", "Orders")}
		w, buf := testWriter(settings)
		must(t, w.StartPayload(), w.StartRecord(record(1)), w.EndRecord(), w.EndPayload())
		out := flushed(t, w, buf)
		assert.Contains(t, out, `"Orders@odata.navigationLink":"Customers(1)/Orders"`)
		assert.NotContains(t, out, "BestFriend")
	})
}
