// Package gemini implements models.ChatProvider for Google Gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/kiranshivaraju/jobtracker/internal/config"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

const name = "gemini"

// Provider implements models.ChatProvider using the genai SDK.
type Provider struct {
	client *genai.Client
	model  string
}

// NewProvider creates a Gemini API client. httpClient may be nil.
func NewProvider(ctx context.Context, cfg config.ProviderConfig, httpClient *http.Client) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Provider{client: c, model: cfg.Model}, nil
}

func (p *Provider) Name() string { return name }

// Complete sends one system+user exchange. JSON mode sets the response MIME
// type to application/json.
func (p *Provider) Complete(ctx context.Context, req models.CompletionRequest) (string, error) {
	temp := float32(req.Temperature)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
		Temperature:       &temp,
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.User), cfg)
	if err != nil {
		return "", wrapError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%s: %w", name, models.ErrEmptyResponse)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", name, models.ErrEmptyResponse)
	}
	return text, nil
}

func wrapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	pe := &models.ProviderError{Provider: name, Err: err}

	// The SDK has returned APIError both by value and by pointer across releases.
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		pe.StatusCode, pe.Message = apiErr.Code, apiErr.Message
	case errors.As(err, &apiErrPtr):
		pe.StatusCode, pe.Message = apiErrPtr.Code, apiErrPtr.Message
	}
	return pe
}

var _ models.ChatProvider = (*Provider)(nil)
