package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	errRoot  = New("root")
	errMinor = Wrap(errRoot, "minor")
	errIndex = Wrap(errMinor, "index")
	errOther = New("other")
)

// TestClassification tests the classification tree.
func TestClassification(t *testing.T) {
	t.Run("Message", func(t *testing.T) {
		assert.Equal(t, "root: minor: index", errIndex.Error())
	})

	t.Run("Is", func(t *testing.T) {
		assert.True(t, Is(errIndex, errRoot))
		assert.True(t, Is(errIndex, errMinor))
		assert.False(t, Is(errMinor, errIndex))
		assert.False(t, Is(errIndex, errOther))
	})

	t.Run("Detailed", func(t *testing.T) {
		err := WrapDetf(errIndex, "value: %d", 3)
		assert.True(t, Is(err, errRoot))
		assert.True(t, IsClass(err, errIndex))
		assert.False(t, IsClass(err, errMinor))
		assert.Equal(t, "value: 3", err.Error())
	})

	t.Run("Multi", func(t *testing.T) {
		m := MultiError{NewDet(errOther, "first"), NewDet(errMinor, "second")}
		assert.Equal(t, "first,second", m.Error())
		assert.True(t, Is(m, errRoot))
	})
}
