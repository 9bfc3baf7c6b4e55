package mapping

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFieldTags(t *testing.T) {
	type tagged struct {
		A int `odata:"key;name=ident;type=Edm.Int64"`
		B int `odata:"-"`
		C int `odata:"enum=NS.Color,NS.Other\\;x"`
		D int
	}
	tp := reflect.TypeOf(tagged{})

	tags := extractTags(tp.Field(0))
	require.Len(t, tags, 3)
	assert.Equal(t, "key", tags[0].Key)
	assert.Equal(t, "name", tags[1].Key)
	assert.Equal(t, []string{"ident"}, tags[1].Values)
	assert.Equal(t, []string{"Edm.Int64"}, tags[2].Values)

	assert.True(t, isOmitted(tp.Field(1)))

	tags = extractTags(tp.Field(2))
	require.Len(t, tags, 1)
	assert.Equal(t, []string{"NS.Color", `NS.Other\;x`}, tags[0].Values)

	assert.Nil(t, extractTags(tp.Field(3)))
}
