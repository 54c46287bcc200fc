package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Free Range Eggs", "free-range-eggs"},
		{"Crème Fraîche 250g", "creme-fraiche-250g"},
		{"  --Raw   Honey!!  ", "raw-honey"},
		{"Jalapeño & Garlic Jam", "jalapeno-garlic-jam"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "owner@farm.example", NormalizeEmail("  Owner@Farm.EXAMPLE "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestParseUUID(t *testing.T) {
	id, err := ParseUUID(" 6f1c2a5e-6c1f-4f0e-9a55-0c3c1d0b8d11 ")
	assert.NoError(t, err)
	assert.Equal(t, "6f1c2a5e-6c1f-4f0e-9a55-0c3c1d0b8d11", id.String())

	_, err = ParseUUID("nope")
	assert.Error(t, err)
}

func TestIsTrue(t *testing.T) {
	assert.False(t, IsTrue(nil))
	assert.False(t, IsTrue(ToPtr(false)))
	assert.True(t, IsTrue(ToPtr(true)))
}
