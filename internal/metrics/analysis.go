package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Provider call outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomePermanent   = "permanent"
	OutcomeError       = "error"
	OutcomeDegraded    = "degraded"
)

func init() {
	register(
		analysisTotal,
		providerCalls,
		providerCallSeconds,
		providerDisabled,
	)
}

var (
	analysisTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobtracker_analysis_total",
			Help: "Analyses served, by the provider tag on the result.",
		},
		[]string{"provider"},
	)

	providerCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobtracker_provider_calls_total",
			Help: "Remote provider calls by outcome.",
		},
		[]string{"provider", "outcome"},
	)

	providerCallSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobtracker_provider_call_seconds",
			Help:    "Remote provider call latency including retries.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"provider"},
	)

	providerDisabled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobtracker_provider_disabled_total",
			Help: "Times a provider entered its disable window.",
		},
		[]string{"provider"},
	)
)

func AnalysisServed(provider string) {
	analysisTotal.WithLabelValues(norm(provider)).Inc()
}

// ObserveProviderCall records one gateway call against a provider.
func ObserveProviderCall(provider, outcome string, elapsed time.Duration) {
	providerCalls.WithLabelValues(norm(provider), outcome).Inc()
	providerCallSeconds.WithLabelValues(norm(provider)).Observe(elapsed.Seconds())
}

func ProviderDisabled(provider string) {
	providerDisabled.WithLabelValues(norm(provider)).Inc()
}

func norm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return s
}
