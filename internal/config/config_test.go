package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LEADVOICE_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	for _, k := range []string{"N8N_BASE_URL", "LLM_PROVIDER", "LLM_MODEL", "WEB_PORT", "DEFAULT_LANGUAGE", "DEFAULT_VOICE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.N8N.BaseURL)
	assert.Equal(t, "/webhook/agent-config", cfg.N8N.ConfigWebhook)
	assert.Equal(t, "/webhook/lead-capture", cfg.N8N.LeadCaptureWebhook)
	assert.Equal(t, "hi-IN", cfg.Defaults.Language)
	assert.Equal(t, "arya", cfg.Defaults.Voice)
	assert.Equal(t, ProviderGroq, cfg.LLM.Provider)
	assert.Equal(t, ":3000", cfg.ServerAddr())
	assert.Equal(t, "http://localhost:3000", cfg.Worker.WebServerURL)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[n8n]
base_url = "http://n8n.internal"

[defaults]
language = "en-IN"
voice = "vidya"

[server]
port = "4000"
`), 0o600))
	t.Setenv("LEADVOICE_CONFIG", path)
	t.Setenv("DEFAULT_VOICE", "karun")
	t.Setenv("LIVEKIT_CREATE_ROOM", "true")
	t.Setenv("WEB_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://n8n.internal", cfg.N8N.BaseURL)
	assert.Equal(t, "en-IN", cfg.Defaults.Language)
	assert.Equal(t, "karun", cfg.Defaults.Voice, "environment wins over file")
	assert.True(t, cfg.LiveKit.CreateRoom)
	assert.Equal(t, ":4000", cfg.ServerAddr())
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[n8n\nbase_url="), 0o600))
	t.Setenv("LEADVOICE_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestLLMEndpoint(t *testing.T) {
	t.Run("groq default", func(t *testing.T) {
		base, key, model := LLMConfig{GroqAPIKey: "gk"}.Endpoint()
		assert.Equal(t, "https://api.groq.com/openai/v1", base)
		assert.Equal(t, "gk", key)
		assert.Equal(t, "llama-3.3-70b-versatile", model)
	})

	t.Run("openai", func(t *testing.T) {
		base, key, model := LLMConfig{Provider: "openai", OpenAIAPIKey: "ok"}.Endpoint()
		assert.Empty(t, base)
		assert.Equal(t, "ok", key)
		assert.Equal(t, "gpt-4o-mini", model)
	})

	t.Run("model override", func(t *testing.T) {
		_, _, model := LLMConfig{Provider: "groq", Model: "llama-3.1-8b-instant"}.Endpoint()
		assert.Equal(t, "llama-3.1-8b-instant", model)
	})
}

func TestWriteDefaultsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leadvoice", "config.toml")
	require.NoError(t, WriteDefaults(path))
	assert.Error(t, WriteDefaults(path), "existing file is kept")

	t.Setenv("LEADVOICE_CONFIG", path)
	assert.Equal(t, path, Path())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/webhook/agent-config", cfg.N8N.ConfigWebhook)
}
