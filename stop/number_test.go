package stop

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestParseUnsigned(t *testing.T) {
	t.Run("Should parse octal strings", func(t *testing.T) {
		n, err := ParseUnsigned("012", 8)

		assert.Nil(t, err)
		assert.Equal(t, uint64(10), n)
	})

	t.Run("Should parse decimal strings", func(t *testing.T) {
		n, err := ParseUnsigned("012", 10)

		assert.Nil(t, err)
		assert.Equal(t, uint64(12), n)
	})

	t.Run("Should take native numbers at face value", func(t *testing.T) {
		n, err := ParseUnsigned(json.Number("12"), 8)

		assert.Nil(t, err)
		assert.Equal(t, uint64(12), n)

		n, err = ParseUnsigned(float64(7), 8)

		assert.Nil(t, err)
		assert.Equal(t, uint64(7), n)

		n, err = ParseUnsigned(3, 10)

		assert.Nil(t, err)
		assert.Equal(t, uint64(3), n)
	})

	t.Run("Should reject digits outside the base", func(t *testing.T) {
		_, err := ParseUnsigned("9", 8)

		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), `cannot parse "9" as base 8 number`)
	})

	t.Run("Should reject negative and fractional numbers", func(t *testing.T) {
		_, err := ParseUnsigned(-1, 10)
		assert.NotNil(t, err)

		_, err = ParseUnsigned(1.5, 10)
		assert.NotNil(t, err)

		_, err = ParseUnsigned(json.Number("-4"), 10)
		assert.NotNil(t, err)
	})

	t.Run("Should reject unsupported representations", func(t *testing.T) {
		_, err := ParseUnsigned(true, 10)

		assert.NotNil(t, err)
		assert.Equal(t, "unsupported number representation bool", err.Error())
	})
}
