// Package openai implements models.ChatProvider for OpenAI-compatible chat
// completion APIs. The same client serves OpenAI and xAI.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/kiranshivaraju/jobtracker/internal/config"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

// Provider implements models.ChatProvider using the openai-go SDK.
type Provider struct {
	name   string
	model  string
	client openai.Client
}

// NewProvider returns a provider reporting itself as name. The SDK's own
// retries are disabled; backoff is handled by the caller.
func NewProvider(name string, cfg config.ProviderConfig, opts ...option.RequestOption) *Provider {
	base := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		base = append(base, option.WithBaseURL(cfg.BaseURL))
	}
	return &Provider{
		name:   name,
		model:  cfg.Model,
		client: openai.NewClient(append(base, opts...)...),
	}
}

func (p *Provider) Name() string { return p.name }

// Complete sends one system+user exchange. In JSON mode the request sets
// response_format to json_object.
func (p *Provider) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", p.wrapError(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%s: %w", p.name, models.ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) wrapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	pe := &models.ProviderError{Provider: p.name, Err: err}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		pe.StatusCode = apiErr.StatusCode
		pe.Message = apiErr.Message
	}
	return pe
}

var _ models.ChatProvider = (*Provider)(nil)
