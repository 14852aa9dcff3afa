package ai_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/kiranshivaraju/jobtracker/internal/ai"
	"github.com/kiranshivaraju/jobtracker/internal/config"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aiConfig() config.AIConfig {
	return config.AIConfig{
		Primary:          config.ProviderXAI,
		Secondary:        config.ProviderOpenAI,
		XAI:              config.ProviderConfig{BaseURL: "https://api.x.ai/v1", Model: "grok-4"},
		OpenAI:           config.ProviderConfig{BaseURL: "https://api.openai.com/v1", Model: "gpt-4o-mini"},
		Gemini:           config.ProviderConfig{Model: "gemini-2.0-flash"},
		DisableWindow:    10 * time.Minute,
		Retries:          1,
		BackoffBase:      500 * time.Millisecond,
		Temperature:      0.7,
		MaxTokens:        1200,
		MaxInputChars:    15000,
		SummaryMaxChars:  220,
		BatchConcurrency: 4,
	}
}

func TestNewProvider_XAI(t *testing.T) {
	cfg := aiConfig()
	cfg.XAI.APIKey = "xai-test"
	p, err := ai.NewProvider(context.Background(), config.ProviderXAI, cfg)
	require.NoError(t, err)
	assert.Equal(t, "xai", p.Name())
}

func TestNewProvider_OpenAI(t *testing.T) {
	cfg := aiConfig()
	cfg.OpenAI.APIKey = "sk-test"
	p, err := ai.NewProvider(context.Background(), config.ProviderOpenAI, cfg)
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}

func TestNewProvider_Gemini(t *testing.T) {
	cfg := aiConfig()
	cfg.Gemini.APIKey = "g-test"
	p, err := ai.NewProvider(context.Background(), config.ProviderGemini, cfg)
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
}

func TestNewProvider_MissingKey(t *testing.T) {
	_, err := ai.NewProvider(context.Background(), config.ProviderXAI, aiConfig())
	assert.ErrorIs(t, err, ai.ErrNoProvider)
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := ai.NewProvider(context.Background(), "anthropic", aiConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown AI provider")
}

func TestNewFromConfig_NoCredentialsIsLocalOnly(t *testing.T) {
	o, err := ai.NewFromConfig(context.Background(), aiConfig(), slog.Default())
	require.NoError(t, err)
	assert.False(t, o.HasRemote())

	r := o.Analyze(context.Background(), "Senior Go engineer, remote.", false)
	assert.Equal(t, models.ProviderLocal, r.Provider)
	assert.True(t, r.Fallback)
}

func TestNewFromConfig_WithCredentials(t *testing.T) {
	cfg := aiConfig()
	cfg.XAI.APIKey = "xai-test"
	cfg.Secondary = config.ProviderNone

	o, err := ai.NewFromConfig(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	assert.True(t, o.HasRemote())
}
