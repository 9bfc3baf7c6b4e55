package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/neuron-odata/errors"
)

func TestRegisterModels(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		m := NewModel("Shop")
		require.NoError(t, m.RegisterModels(&Product{}, &Category{}, &Part{}, &Photo{}))

		product, ok := m.TypeOf(&Product{})
		require.True(t, ok)
		assert.True(t, product.IsEntity())
		assert.Equal(t, "Shop.Product", product.FullName())
		assert.Equal(t, []string{"id"}, product.Keys())

		props := product.Properties()
		names := make([]string, len(props))
		for i, p := range props {
			names[i] = p.Name()
		}
		assert.Equal(t, []string{"id", "name", "price", "created", "tags", "dimensions", "category", "parts"}, names)

		price, ok := product.Property("price")
		require.True(t, ok)
		assert.Equal(t, "Edm.Decimal", price.TypeName())

		created, _ := product.Property("created")
		assert.Equal(t, "Edm.DateTimeOffset", created.TypeName())
		assert.False(t, created.IsNullable())

		tags, _ := product.Property("tags")
		assert.Equal(t, "Collection(Edm.String)", tags.FullTypeName())

		dims, _ := product.Property("dimensions")
		assert.Equal(t, ComplexProperty, dims.Kind())
		assert.Equal(t, "Shop.Dimensions", dims.TypeName())
		_, ok = m.Type("Shop.Dimensions")
		assert.True(t, ok)

		category, _ := product.Property("category")
		assert.Equal(t, NavigationProperty, category.Kind())
		assert.False(t, category.IsCollection())

		parts, _ := product.Property("parts")
		assert.True(t, parts.ContainsTarget())
		assert.True(t, parts.IsCollection())

		categoryType, ok := m.TypeOf(Category{})
		require.True(t, ok)
		assert.Equal(t, []string{"code"}, categoryType.Keys())
		code, _ := categoryType.Property("code")
		assert.Equal(t, "Edm.Guid", code.TypeName())

		products, ok := m.NavigationSource("products")
		require.True(t, ok)
		assert.Equal(t, product, products.EntityType())

		categories, ok := m.NavigationSource("Categories")
		require.True(t, ok)
		assert.Equal(t, categories, products.Target("category"))
		assert.Equal(t, products, categories.Target("products"))
		assert.True(t, products.Target("parts").IsContained())

		photo, _ := m.TypeOf(&Photo{})
		assert.True(t, photo.HasStream())
		content, _ := photo.Property("content")
		assert.Equal(t, StreamProperty, content.Kind())
	})

	t.Run("NamingConvention", func(t *testing.T) {
		m := NewModel("Shop", WithNamingConvention(SnakeCase), WithDefaultNotNull)
		require.NoError(t, m.RegisterModels(&Part{}))

		part, _ := m.TypeOf(&Part{})
		serial, ok := part.Property("serial")
		require.True(t, ok)
		assert.False(t, serial.IsNullable())

		_, ok = m.NavigationSource("parts")
		assert.True(t, ok)
	})

	t.Run("AlreadyRegistered", func(t *testing.T) {
		m := NewModel("Shop")
		require.NoError(t, m.RegisterModels(&Part{}))
		err := m.RegisterModels(Part{})
		assert.True(t, errors.Is(err, ErrTypeAlreadyRegistered))
	})

	t.Run("NotStruct", func(t *testing.T) {
		m := NewModel("Shop")
		err := m.RegisterModels(1)
		assert.True(t, errors.Is(err, ErrModel))
	})

	t.Run("UnsupportedField", func(t *testing.T) {
		m := NewModel("Shop")
		err := m.RegisterModels(&Invalid{})
		assert.True(t, errors.Is(err, ErrInvalidModelField))
	})
}

func TestFieldValues(t *testing.T) {
	m := NewModel("Shop")
	require.NoError(t, m.RegisterModels(&Part{}, &Product{}, &Category{}))

	part, _ := m.TypeOf(&Part{})
	values, err := part.FieldValues(&Part{ID: 3, Serial: "X-1"})
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "id", values[0].Property.Name())
	assert.Equal(t, int64(3), values[0].Value)
	assert.Equal(t, "X-1", values[1].Value)

	product, _ := m.TypeOf(&Product{})
	values, err = product.FieldValues(Product{ID: 1})
	require.NoError(t, err)
	for _, v := range values {
		if v.Property.Name() == "dimensions" {
			assert.Nil(t, v.Value)
		}
	}

	_, err = part.FieldValues(&Product{})
	assert.True(t, errors.Is(err, ErrModel))

	_, err = NewEntityType("NS", "T", "ID").FieldValues(&Part{})
	assert.True(t, errors.Is(err, ErrModel))
}
