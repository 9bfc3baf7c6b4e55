package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/neuron-odata/errors"
)

func testFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	DefineFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestReadWithFlags(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		c, err := ReadWithFlags("", testFlagSet(t))
		require.NoError(t, err)
		assert.Equal(t, Default(), c)
	})

	t.Run("Flags", func(t *testing.T) {
		c, err := ReadWithFlags("", testFlagSet(t, "--metadata=full", "--response=false", "--service-root", "http://host/service"))
		require.NoError(t, err)
		assert.Equal(t, "full", c.Writer.MetadataLevel)
		assert.False(t, c.Writer.WritingResponse)
		assert.Equal(t, "http://host/service", c.Writer.ServiceRoot)
	})

	t.Run("FileOverridden", func(t *testing.T) {
		c, err := ReadWithFlags("testdata/odata.yaml", testFlagSet(t, "--metadata=none", "--namespace", "NS"))
		require.NoError(t, err)
		assert.Equal(t, "none", c.Writer.MetadataLevel)
		assert.Equal(t, "NS", c.Mapping.Namespace)
		// not set flags keep the file values.
		assert.True(t, c.Writer.EnableKeyAsSegment)
		assert.Equal(t, "snake", c.Mapping.NamingConvention)
	})

	t.Run("InvalidValue", func(t *testing.T) {
		_, err := ReadWithFlags("", testFlagSet(t, "--metadata=some"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidValue))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := ReadWithFlags("testdata/missing.yaml", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRead))
	})
}
