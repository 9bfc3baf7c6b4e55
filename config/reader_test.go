package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/neuron-odata/errors"
)

func TestReadDefaultConfig(t *testing.T) {
	v := viper.New()
	ViperSetDefaults(v)

	c, err := Unmarshal(v)
	require.NoError(t, err)

	t.Run("Writer", func(t *testing.T) {
		assert.True(t, c.Writer.WritingResponse)
		assert.False(t, c.Writer.WritingParameter)
		assert.Equal(t, "minimal", c.Writer.MetadataLevel)
		assert.Empty(t, c.Writer.ServiceRoot)
	})

	t.Run("Mapping", func(t *testing.T) {
		assert.Equal(t, "Default", c.Mapping.Namespace)
		assert.Equal(t, "lower_camel", c.Mapping.NamingConvention)
	})
}

func TestReadNamedConfig(t *testing.T) {
	c, err := ReadNamedConfig("odata", "testdata")
	require.NoError(t, err)

	assert.Equal(t, "debug", c.LogLevel)
	assert.False(t, c.Writer.WritingResponse)
	assert.Equal(t, "full", c.Writer.MetadataLevel)
	assert.True(t, c.Writer.EnableKeyAsSegment)
	assert.Equal(t, "https://example.org/service/", c.Writer.ServiceRoot)
	assert.Equal(t, "Sales", c.Mapping.Namespace)
	assert.Equal(t, "snake", c.Mapping.NamingConvention)

	t.Run("Invalid", func(t *testing.T) {
		_, err := ReadNamedConfig("invalid", "testdata")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidValue))

		multi, ok := err.(errors.MultiError)
		require.True(t, ok)
		require.NotEmpty(t, multi)
		for _, e := range multi {
			var detailed *errors.DetailedError
			require.True(t, errors.As(e, &detailed))
			assert.NotEmpty(t, detailed.Details)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := ReadNamedConfig("missing", "testdata")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRead))
	})
}
