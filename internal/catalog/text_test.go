package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "sao paulo", Fold("  São Paulo "))
	assert.Equal(t, "florianopolis", Fold("FLORIANÓPOLIS"))
}

func TestSameCity(t *testing.T) {
	assert.True(t, SameCity("Criciúma", "criciuma"))
	assert.False(t, SameCity("Içara", "Criciúma"))
	assert.False(t, SameCity("", ""))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "moda-praia", Slugify("Moda  Praia"))
	assert.Equal(t, "calcas-jeans", Slugify("Calças & Jeans!"))
	assert.Equal(t, "infantil", Slugify("--Infantil--"))
}
