package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

const systemPrompt = `You are an expert job description analyzer. Given the following job description, extract and generate a structured analysis. Output ONLY valid JSON with this exact structure:
{
  "summary": "A concise 2-3 sentence summary of the job role and responsibilities.",
  "suggestedSkills": ["An array of 5-10 key skills to highlight in a resume, based on the JD."],
  "requirements": { "required": [], "preferred": [], "experience": "Not specified", "education": "Not specified" },
  "insights": { "salaryRange": "Not specified", "location": "Not specified", "companySize": "Not specified", "competitionLevel": "Low | Medium | High", "industryTrends": [] },
  "actionItems": []
}
Use the job description to extract details accurately. For any field not mentioned, use 'Not specified' or an empty array. Keep the output concise and professional.`

// GatewayConfig tunes every call a Gateway makes.
type GatewayConfig struct {
	Backoff     Backoff
	Temperature float64
	MaxTokens   int
}

// Gateway performs structured analysis calls against one provider.
type Gateway struct {
	provider models.ChatProvider
	cfg      GatewayConfig
	logger   *slog.Logger
}

func NewGateway(provider models.ChatProvider, cfg GatewayConfig, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{provider: provider, cfg: cfg, logger: logger}
}

func (g *Gateway) Name() string { return g.provider.Name() }

// Analyze asks the provider for a structured analysis of text.
//
// The call first requests JSON mode and, if the provider rejects it, repeats
// once in free-form mode. Rate-limited failures are retried per the Backoff.
// A reply that cannot be decoded is not an error: the returned result is the
// empty filler with Fallback set, and the caller decides how to tag it.
func (g *Gateway) Analyze(ctx context.Context, text string) (models.AnalysisResult, error) {
	req := models.CompletionRequest{
		System:      systemPrompt,
		User:        text,
		JSONMode:    true,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	}

	reply, err := retry(ctx, g.cfg.Backoff, g.logger, func(ctx context.Context) (string, error) {
		out, err := g.provider.Complete(ctx, req)
		if err != nil && IsStructuredUnsupported(err) {
			g.logger.Debug("structured output rejected, retrying free-form",
				"provider", g.provider.Name(),
				"error", err,
			)
			plain := req
			plain.JSONMode = false
			out, err = g.provider.Complete(ctx, plain)
		}
		return out, err
	})
	if err != nil && !errors.Is(err, ErrEmptyResponse) {
		return models.AnalysisResult{}, err
	}

	result, perr := ParseReply(reply)
	if perr != nil {
		g.logger.Warn("unusable model reply",
			"provider", g.provider.Name(),
			"error", perr,
			"reply_len", len(reply),
		)
		return models.NewEmptyAnalysis(models.ProviderLocal), nil
	}
	return result, nil
}

// ParseReply decodes a model reply into a normalised AnalysisResult. Text
// around the outermost JSON object (prose, code fences) is ignored.
func ParseReply(reply string) (models.AnalysisResult, error) {
	s := strings.TrimSpace(reply)
	if s == "" {
		return models.AnalysisResult{}, ErrEmptyResponse
	}
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return models.AnalysisResult{}, fmt.Errorf("no JSON object in reply")
	}

	var r models.AnalysisResult
	if err := json.Unmarshal([]byte(s[start:end+1]), &r); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("decoding reply: %w", err)
	}
	r.Normalize()
	r.Provider = ""
	r.Fallback = false
	return r, nil
}
