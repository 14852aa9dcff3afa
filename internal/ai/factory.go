package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kiranshivaraju/jobtracker/internal/ai/gemini"
	"github.com/kiranshivaraju/jobtracker/internal/ai/openai"
	"github.com/kiranshivaraju/jobtracker/internal/analysis"
	"github.com/kiranshivaraju/jobtracker/internal/config"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

// NewProvider constructs the provider of the given kind.
// Returns ErrNoProvider when the provider's API key is empty.
func NewProvider(ctx context.Context, kind string, cfg config.AIConfig) (models.ChatProvider, error) {
	pc, ok := cfg.Provider(kind)
	if !ok {
		return nil, fmt.Errorf("unknown AI provider %q: must be one of xai, openai, gemini", kind)
	}
	if pc.APIKey == "" {
		return nil, ErrNoProvider
	}

	switch kind {
	case config.ProviderXAI, config.ProviderOpenAI:
		return openai.NewProvider(kind, pc), nil
	default:
		return gemini.NewProvider(ctx, pc, nil)
	}
}

// NewFromConfig builds the full fallback chain. Called once at startup.
// Providers without a credential are left out of the chain.
func NewFromConfig(ctx context.Context, cfg config.AIConfig, logger *slog.Logger, opts ...Option) (*Orchestrator, error) {
	gwCfg := GatewayConfig{
		Backoff:     Backoff{Retries: cfg.Retries, Base: cfg.BackoffBase},
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	gateway := func(kind string) (*Gateway, error) {
		if kind == "" || kind == config.ProviderNone {
			return nil, nil
		}
		p, err := NewProvider(ctx, kind, cfg)
		if errors.Is(err, ErrNoProvider) {
			logger.Info("ai provider not configured", "provider", kind)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return NewGateway(p, gwCfg, logger), nil
	}

	primary, err := gateway(cfg.Primary)
	if err != nil {
		return nil, fmt.Errorf("primary provider: %w", err)
	}
	secondary, err := gateway(cfg.Secondary)
	if err != nil {
		return nil, fmt.Errorf("secondary provider: %w", err)
	}

	settings := Settings{
		DisableWindow:    cfg.DisableWindow,
		MaxInputChars:    cfg.MaxInputChars,
		BatchConcurrency: cfg.BatchConcurrency,
	}
	opts = append([]Option{WithLogger(logger)}, opts...)
	return NewOrchestrator(primary, secondary, analysis.NewExtractor(cfg.SummaryMaxChars), settings, opts...), nil
}
