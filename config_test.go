package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "CONTACT_MODE", "MIN_LOADING", "SUBMIT_DELAY", "RESET_DELAY", "SMTP_HOST"} {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ContactSimulate, cfg.ContactMode)
	assert.Equal(t, 2*time.Second, cfg.MinLoading)
	assert.Equal(t, 1500*time.Millisecond, cfg.SubmitDelay)
	assert.Equal(t, 3*time.Second, cfg.ResetDelay)
	assert.Equal(t, 8760*time.Hour, cfg.VisitorRetention)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CONTACT_MODE", "store")
	t.Setenv("MIN_LOADING", "500ms")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, ContactStore, cfg.ContactMode)
	assert.Equal(t, 500*time.Millisecond, cfg.MinLoading)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("unknown mode", func(t *testing.T) {
		t.Setenv("CONTACT_MODE", "carrier-pigeon")
		_, err := loadConfig()
		assert.ErrorContains(t, err, `unknown CONTACT_MODE "carrier-pigeon"`)
	})
	t.Run("smtp without credentials", func(t *testing.T) {
		t.Setenv("CONTACT_MODE", "smtp")
		t.Setenv("SMTP_USER", "")
		t.Setenv("SMTP_PASS", "")
		_, err := loadConfig()
		assert.ErrorContains(t, err, "SMTP_USER and SMTP_PASS")
	})
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("MIN_LOADING", "soon")
		_, err := loadConfig()
		assert.ErrorContains(t, err, "parse env")
	})
}
