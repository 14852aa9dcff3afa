package ai

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kiranshivaraju/jobtracker/internal/analysis"
	"github.com/kiranshivaraju/jobtracker/internal/metrics"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

// ResultCache stores successful remote analyses keyed by description text.
// A miss is (nil, nil).
type ResultCache interface {
	GetAnalysis(ctx context.Context, text string) (*models.AnalysisResult, error)
	SetAnalysis(ctx context.Context, text string, result models.AnalysisResult, ttl time.Duration) error
}

// Settings bounds the orchestrator's behaviour.
type Settings struct {
	// DisableWindow is how long a provider is skipped after a permanent failure.
	DisableWindow time.Duration
	// MaxInputChars truncates descriptions (in runes) before analysis. Zero disables.
	MaxInputChars    int
	BatchConcurrency int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAvailability shares an externally owned availability tracker.
func WithAvailability(a *Availability) Option {
	return func(o *Orchestrator) { o.avail = a }
}

// WithCache enables the remote result cache.
func WithCache(c ResultCache, ttl time.Duration) Option {
	return func(o *Orchestrator) {
		o.cache = c
		o.cacheTTL = ttl
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// Orchestrator runs the analysis fallback chain: primary provider, then
// secondary provider, then the local heuristic extractor.
type Orchestrator struct {
	primary   *Gateway
	secondary *Gateway
	local     *analysis.Extractor
	avail     *Availability
	cache     ResultCache
	cacheTTL  time.Duration
	settings  Settings
	logger    *slog.Logger
}

// NewOrchestrator wires the chain. Either gateway may be nil when its
// provider is not configured; with both nil every analysis is local.
func NewOrchestrator(primary, secondary *Gateway, local *analysis.Extractor, settings Settings, opts ...Option) *Orchestrator {
	if settings.BatchConcurrency <= 0 {
		settings.BatchConcurrency = 1
	}
	o := &Orchestrator{
		primary:   primary,
		secondary: secondary,
		local:     local,
		settings:  settings,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.avail == nil {
		o.avail = NewAvailability(nil)
	}
	if o.local == nil {
		o.local = analysis.NewExtractor(analysis.DefaultSummaryMaxChars)
	}
	return o
}

// Availability exposes the tracker so callers can inspect disable windows.
func (o *Orchestrator) Availability() *Availability { return o.avail }

// Analyze returns the analysis of one description. It never fails: every
// failure degrades to the local heuristic result. localOnly skips providers.
func (o *Orchestrator) Analyze(ctx context.Context, text string, localOnly bool) (res models.AnalysisResult) {
	text = o.prepare(text)

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("panic in analysis", "error", r)
			res = o.local.Analyze(text)
		}
		metrics.AnalysisServed(res.Provider)
	}()

	if text == "" || localOnly {
		return o.local.Analyze(text)
	}

	if cached, ok := o.cached(ctx, text); ok {
		return cached
	}

	if o.primary != nil && o.avail.Available(o.primary.Name()) {
		if r, ok := o.attempt(ctx, o.primary, models.ProviderPrimary, models.ProviderPrimaryDegraded, text); ok {
			return r
		}
	}

	if o.secondary != nil && o.avail.Available(o.secondary.Name()) {
		if r, ok := o.attempt(ctx, o.secondary, models.ProviderSecondary, models.ProviderSecondaryDegraded, text); ok {
			return r
		}
	}

	return o.local.Analyze(text)
}

// AnalyzeBatch analyses every description on the local-only path,
// concurrently. Results are positionally aligned with texts.
func (o *Orchestrator) AnalyzeBatch(ctx context.Context, texts []string) []models.AnalysisResult {
	results := make([]models.AnalysisResult, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.settings.BatchConcurrency)
	for i, t := range texts {
		g.Go(func() error {
			results[i] = o.Analyze(gctx, t, true)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Local runs only the heuristic extractor.
func (o *Orchestrator) Local(text string) models.AnalysisResult {
	return o.local.Analyze(o.prepare(text))
}

// HasRemote reports whether any provider is configured.
func (o *Orchestrator) HasRemote() bool {
	return o.primary != nil || o.secondary != nil
}

// attempt calls one provider. ok is false when the chain should move on.
func (o *Orchestrator) attempt(ctx context.Context, gw *Gateway, role, degradedRole, text string) (models.AnalysisResult, bool) {
	name := gw.Name()
	o.logger.Debug("attempting provider", "provider", name, "role", role)

	start := time.Now()
	r, err := gw.Analyze(ctx, text)
	elapsed := time.Since(start)

	if err != nil {
		outcome := metrics.OutcomeError
		switch {
		case IsPermanent(err):
			outcome = metrics.OutcomePermanent
			until := o.avail.Disable(name, o.settings.DisableWindow)
			metrics.ProviderDisabled(name)
			o.logger.Warn("provider disabled",
				"provider", name,
				"role", role,
				"error", err,
				"disabled_until", until.UTC().Format(time.RFC3339),
			)
		case IsRateLimited(err):
			outcome = metrics.OutcomeRateLimited
			o.logger.Warn("provider rate limited", "provider", name, "role", role, "error", err)
		default:
			o.logger.Warn("provider failed", "provider", name, "role", role, "error", err)
		}
		metrics.ObserveProviderCall(name, outcome, elapsed)
		return models.AnalysisResult{}, false
	}

	if r.Fallback {
		metrics.ObserveProviderCall(name, metrics.OutcomeDegraded, elapsed)
		r.Provider = degradedRole
		return r, true
	}

	metrics.ObserveProviderCall(name, metrics.OutcomeSuccess, elapsed)
	r.Provider = role
	r.Fallback = false
	o.store(ctx, text, r)
	return r, true
}

func (o *Orchestrator) cached(ctx context.Context, text string) (models.AnalysisResult, bool) {
	if o.cache == nil {
		return models.AnalysisResult{}, false
	}
	r, err := o.cache.GetAnalysis(ctx, text)
	if err != nil {
		o.logger.Warn("analysis cache read failed", "error", err)
		return models.AnalysisResult{}, false
	}
	if r == nil {
		return models.AnalysisResult{}, false
	}
	return *r, true
}

func (o *Orchestrator) store(ctx context.Context, text string, r models.AnalysisResult) {
	if o.cache == nil {
		return
	}
	if err := o.cache.SetAnalysis(ctx, text, r, o.cacheTTL); err != nil {
		o.logger.Warn("analysis cache write failed", "error", err)
	}
}

// prepare trims text and truncates it to MaxInputChars runes.
func (o *Orchestrator) prepare(text string) string {
	text = strings.TrimSpace(text)
	if o.settings.MaxInputChars <= 0 {
		return text
	}
	if runes := []rune(text); len(runes) > o.settings.MaxInputChars {
		return string(runes[:o.settings.MaxInputChars])
	}
	return text
}
