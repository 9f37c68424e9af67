package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVariants(t *testing.T) {
	previews := []PreviewProduct{
		{Name: "Анальгин", Form: "таблетки", Manufacturer: "Белмедпрепараты", Country: "Беларусь", Price: 1.5},
		{Name: "Анальгин", Form: "таблетки", Manufacturer: "Белмедпрепараты", Country: "Беларусь", Price: 3.0},
		{Name: "Анальгин", Form: "раствор", Manufacturer: "Белмедпрепараты", Country: "Беларусь", Price: 2.2},
		{Name: "Анальгин", Form: "таблетки", Manufacturer: "Дальхимфарм", Country: "Россия", Price: 1.9},
	}

	variants := BuildVariants(previews)
	require.Len(t, variants, 3)

	first := variants[0]
	assert.Equal(t, "таблетки", first.Form)
	assert.Equal(t, 1.5, first.MinPrice)
	assert.Equal(t, 3.0, first.MaxPrice)

	assert.Equal(t, "раствор", variants[1].Form)
	assert.Equal(t, "Россия", variants[2].Country)
}

func TestBuildVariantsCountrySplitsCombinations(t *testing.T) {
	// Same product and form, different country: two distinct variants.
	// This is the opposite of the stock grouping key, which ignores country.
	previews := []PreviewProduct{
		{Name: "Анальгин", Form: "таблетки", Manufacturer: "X", Country: "Беларусь", Price: 1.5},
		{Name: "Анальгин", Form: "таблетки", Manufacturer: "X", Country: "Россия", Price: 1.5},
	}

	assert.Len(t, BuildVariants(previews), 2)
}

func TestBuildVariantsEmpty(t *testing.T) {
	assert.Empty(t, BuildVariants(nil))
}
