package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerURL)
	assert.Equal(t, ".", cfg.OutputDir)
}

func TestLoadConfig_FlagOverride(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"cli", "-a", "http://api.example.com", "-o", "/tmp/clips"}

	cfg := LoadConfig()
	assert.Equal(t, "http://api.example.com", cfg.ServerURL)
	assert.Equal(t, "/tmp/clips", cfg.OutputDir)
}

func TestLoadConfig_JsonOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_url":"http://json.example.com"}`), 0o600))

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"cli", "-c", path}

	cfg := LoadConfig()
	assert.Equal(t, "http://json.example.com", cfg.ServerURL)
	// Field absent from JSON keeps its default.
	assert.Equal(t, ".", cfg.OutputDir)
}
