package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WHATSAPP_NUMBER", "5548999990000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "5548999990000", cfg.WhatsAppNumber)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, 72, cfg.CartTTLHours)
	assert.Equal(t, 300, cfg.CatalogCacheTTLSeconds)
}
