package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PORT", "MODEL_PROVIDER", "MODEL_NAME", "MODEL_TIMEOUT", "MODEL_MAX_TOKENS",
		"MODEL_TEMPERATURE", "MODEL_RPS", "MODEL_MAX_RETRIES", "WORKER_COUNT", "MAX_CONCURRENT_PAGES",
		"MAX_PAGE_BYTES", "JOB_TTL", "LOG_LEVEL", "LOG_FORMAT", "DEFAULT_LANGUAGE", "OPENAI_API_KEY"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "openai", cfg.ModelProvider)
	assert.Equal(t, 120*time.Second, cfg.ModelTimeout)
	assert.Equal(t, 1000, cfg.ModelMaxTokens)
	assert.InDelta(t, 0.3, cfg.ModelTemperature, 1e-9)
	assert.Zero(t, cfg.ModelRPS)
	assert.Equal(t, 2, cfg.ModelMaxRetries)
	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 4, cfg.MaxConcurrentPages)
	assert.Equal(t, int64(10<<20), cfg.MaxPageBytes)
	assert.Equal(t, time.Hour, cfg.JobTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.APIKey())
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MODEL_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-oai")
	t.Setenv("MODEL_RPS", "2.5")
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("JOB_TTL", "garbage")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "anthropic", cfg.ModelProvider)
	assert.Equal(t, "sk-ant", cfg.APIKey())
	assert.InDelta(t, 2.5, cfg.ModelRPS, 1e-9)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, time.Hour, cfg.JobTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	base := Config{ModelProvider: "openai", LogFormat: "json", LogLevel: "info"}
	require.NoError(t, base.Validate())

	bad := base
	bad.ModelProvider = "cohere"
	assert.Error(t, bad.Validate())

	bad = base
	bad.LogFormat = "xml"
	assert.Error(t, bad.Validate())

	bad = base
	bad.LogLevel = "loud"
	assert.Error(t, bad.Validate())

	bad = base
	bad.ModelMaxRetries = 40
	assert.ErrorContains(t, bad.Validate(), "MODEL_MAX_RETRIES")

	bad = base
	bad.ModelMaxRetries = -1
	assert.Error(t, bad.Validate())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := Config{LogLevel: "warn", LogFormat: "text"}.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown k=v")

	buf.Reset()
	Config{LogLevel: "info", LogFormat: "json"}.Logger(&buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
