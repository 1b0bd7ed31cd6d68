package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerURL)
	assert.Equal(t, "carblock-session.json", cfg.SessionFile)
	assert.Empty(t, cfg.ProxyUser)
	assert.Empty(t, cfg.ProxyPassword)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"cmd", "-a", "https://carblock.example.com", "-u", "gate", "-p", "secret"}

	cfg := LoadConfig()
	assert.Equal(t, "https://carblock.example.com", cfg.ServerURL)
	assert.Equal(t, "gate", cfg.ProxyUser)
	assert.Equal(t, "secret", cfg.ProxyPassword)
	assert.Equal(t, "carblock-session.json", cfg.SessionFile)
}
