package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/neuron-odata/errors"
)

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFormat(t *testing.T) {
	t.Run("RecordSet", func(t *testing.T) {
		out, err := execute(t, `[{"ID":1,"Name":"A"},{"ID":2}]`, "--type", "Customer", "--count", "2")
		require.NoError(t, err)
		assert.Equal(t, `{"@odata.context":"$metadata#Customers","@odata.count":2,"value":[{"ID":1,"Name":"A"},{"ID":2}]}`, out)
	})

	t.Run("FullRecord", func(t *testing.T) {
		out, err := execute(t, `{"ID":1,"@odata.etag":"e","@NS.note":"x"}`, "--metadata", "full", "--entity-set", "People", "--type", "NS.Person")
		require.NoError(t, err)
		assert.Equal(t, `{"@odata.context":"$metadata#People/$entity","@odata.type":"#NS.Person","@odata.id":"People(1)",`+
			`"@odata.etag":"e","@odata.editLink":"People(1)","@NS.note":"x","ID":1}`, out)
	})

	t.Run("ExpandedRequest", func(t *testing.T) {
		out, err := execute(t, `{"ID":1,"Orders":[{"ID":2}],"Friend":null}`, "--response=false", "--expand", "Orders,Friend")
		require.NoError(t, err)
		assert.Equal(t, `{"ID":1,"Orders":[{"ID":2}],"Friend":null}`, out)
	})

	t.Run("ComplexValues", func(t *testing.T) {
		out, err := execute(t, `{"ID":1,"Address":{"Street":"Main"},"Tags":["a","b"]}`, "--metadata", "none")
		require.NoError(t, err)
		assert.Equal(t, `{"ID":1,"Address":{"Street":"Main"},"Tags":["a","b"]}`, out)
	})

	t.Run("PropertyAnnotations", func(t *testing.T) {
		out, err := execute(t, `{"ID":1,"Name@NS.term":"x","Name":"A","Total@odata.type":"#Int64","Total":5,`+
			`"Orders@odata.count":1,"Orders":[{"ID":2}],"Gone@NS.term":1}`, "--response=false", "--expand", "Orders")
		require.NoError(t, err)
		assert.Equal(t, `{"ID":1,"Name@NS.term":"x","Name":"A","Total@odata.type":"#Int64","Total":5,"Orders":[{"ID":2}]}`, out)
	})

	t.Run("Select", func(t *testing.T) {
		out, err := execute(t, `{"ID":1,"Orders":[{"ID":2}]}`, "--entity-set", "Customers", "--select", "ID", "--expand", "Orders")
		require.NoError(t, err)
		assert.Equal(t, `{"@odata.context":"$metadata#Customers(ID)/$entity","ID":1}`, out)
	})

	t.Run("Rename", func(t *testing.T) {
		out, err := execute(t, `{"first_name":"A"}`, "--metadata", "none", "--rename", "--naming-convention", "camel")
		require.NoError(t, err)
		assert.Equal(t, `{"FirstName":"A"}`, out)
	})

	t.Run("Gzip", func(t *testing.T) {
		out, err := execute(t, `null`, "--gzip")
		require.NoError(t, err)

		r, err := gzip.NewReader(strings.NewReader(out))
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, `null`, string(data))
	})

	t.Run("ConfigFile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "odata.yaml")
		require.NoError(t, os.WriteFile(path, []byte("writer:\n  writing-parameter: true\n  writing-response: false\n"), 0o600))

		out, err := execute(t, `[{"ID":1},{"ID":2}]`, "--config", path)
		require.NoError(t, err)
		assert.Equal(t, `[{"ID":1},{"ID":2}]`, out)
	})

	t.Run("InputFile", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "input.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"ID":1}`), 0o600))

		out, err := execute(t, "", "--metadata", "none", path)
		require.NoError(t, err)
		assert.Equal(t, `{"ID":1}`, out)
	})
}

func TestFormatErrors(t *testing.T) {
	t.Run("InvalidDocument", func(t *testing.T) {
		_, err := execute(t, `{"ID":`)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInput))
	})

	t.Run("TrailingValue", func(t *testing.T) {
		_, err := execute(t, `{"ID":1} {"ID":2}`)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInput))
	})

	t.Run("ScalarDocument", func(t *testing.T) {
		_, err := execute(t, `1`)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInput))
	})

	t.Run("GzipClosedOnFailure", func(t *testing.T) {
		out, err := execute(t, `[1]`, "--gzip")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInput))

		r, err := gzip.NewReader(strings.NewReader(out))
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("InvalidMetadataLevel", func(t *testing.T) {
		_, err := execute(t, `{"ID":1}`, "--metadata", "some")
		require.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := execute(t, "", filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInput))
	})
}

func TestReadDocument(t *testing.T) {
	doc, err := readDocument(strings.NewReader(`{"b":1,"a":[true,null,{"c":"d"}]}`))
	require.NoError(t, err)

	obj, ok := doc.(object)
	require.True(t, ok)
	require.Len(t, obj, 2)
	assert.Equal(t, "b", obj[0].name)
	assert.Equal(t, "a", obj[1].name)

	arr, ok := obj[1].value.([]interface{})
	require.True(t, ok)
	assert.Equal(t, true, arr[0])
	assert.Nil(t, arr[1])
	assert.Equal(t, object{{name: "c", value: "d"}}, arr[2])
}
