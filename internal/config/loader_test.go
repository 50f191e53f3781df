package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	cfgDir := filepath.Join(dir, ConfigDirName)
	require.NoError(t, os.MkdirAll(cfgDir, 0755))
	path := filepath.Join(cfgDir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const minimalConfig = `
server:
  base_url: http://localhost:8000
environments:
  development:
    name: development
    base_url: http://localhost:8000
current_env: development
`

func TestLoadFindsConfigUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, minimalConfig)
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0755))

	cfg, err := NewLoader(nested).Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL())
}

func TestLoadAppliesDefaultsForUnsetUIFields(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, minimalConfig)

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultScrollEase, cfg.ScrollEase())
	assert.Equal(t, time.Duration(DefaultTransitionMS)*time.Millisecond, cfg.TransitionDuration())
	assert.Equal(t, DefaultChatMode, cfg.ChatMode())
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, minimalConfig)

	t.Setenv("HUB_SERVER_URL", "https://hub.example.edu")
	t.Setenv("HUB_UI_SCROLL_EASE", "0.2")
	t.Setenv("HUB_UI_TRANSITION_MS", "150")
	t.Setenv("HUB_CHAT_MODE", "rag")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "https://hub.example.edu", cfg.BaseURL(),
		"HUB_SERVER_URL overrides the environment selection")
	assert.Equal(t, 0.2, cfg.ScrollEase())
	assert.Equal(t, 150*time.Millisecond, cfg.TransitionDuration())
	assert.Equal(t, "rag", cfg.ChatMode())
}

func TestLoadRejectsInvalidEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, minimalConfig)
	t.Setenv("HUB_UI_SCROLL_EASE", "fast")

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"missing base url", func(c *Config) {
			c.Server.BaseURL = ""
			c.Current = ""
			c.Envs = nil
		}, true},
		{"ease out of range", func(c *Config) { c.UI.ScrollEase = 1.5 }, true},
		{"negative transition", func(c *Config) { c.UI.TransitionMS = -10 }, true},
		{"bad chat mode", func(c *Config) { c.Chat.Mode = "turbo" }, true},
		{"dangling current env", func(c *Config) { c.Current = "staging" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(dir)

	cfg := DefaultConfig()
	cfg.UI.TransitionMS = 200
	require.NoError(t, loader.Save(cfg, loader.GetConfigPath()))
	assert.True(t, loader.IsInitialized())

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, loaded.TransitionDuration())

	root, err := loader.GetProjectRoot()
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}
