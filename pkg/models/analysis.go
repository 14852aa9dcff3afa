package models

import "strings"

// NotSpecified is the placeholder for any text field the analysis could not determine.
const NotSpecified = "Not specified"

// Provider tags recorded on every AnalysisResult.
const (
	ProviderPrimary           = "primary"
	ProviderSecondary         = "secondary"
	ProviderLocal             = "local"
	ProviderPrimaryDegraded   = "primary-degraded"
	ProviderSecondaryDegraded = "secondary-degraded"
)

// Competition levels.
const (
	CompetitionLow    = "Low"
	CompetitionMedium = "Medium"
	CompetitionHigh   = "High"
)

// AnalysisResult is the structured, candidate-facing analysis of one job description.
// Every field is always populated; use NewEmptyAnalysis or Normalize to guarantee it.
type AnalysisResult struct {
	Summary         string       `json:"summary"`
	SuggestedSkills []string     `json:"suggestedSkills"`
	Requirements    Requirements `json:"requirements"`
	Insights        Insights     `json:"insights"`
	ActionItems     []string     `json:"actionItems"`
	Provider        string       `json:"provider"`
	Fallback        bool         `json:"fallback"`
}

type Requirements struct {
	Required   []string `json:"required"`
	Preferred  []string `json:"preferred"`
	Experience string   `json:"experience"`
	Education  string   `json:"education"`
}

type Insights struct {
	SalaryRange      string   `json:"salaryRange"`
	Location         string   `json:"location"`
	CompanySize      string   `json:"companySize"`
	CompetitionLevel string   `json:"competitionLevel"`
	IndustryTrends   []string `json:"industryTrends"`
}

// NewEmptyAnalysis returns the filler result used when a reply cannot be decoded.
func NewEmptyAnalysis(provider string) AnalysisResult {
	return AnalysisResult{
		Summary:         NotSpecified,
		SuggestedSkills: []string{},
		Requirements: Requirements{
			Required:   []string{},
			Preferred:  []string{},
			Experience: NotSpecified,
			Education:  NotSpecified,
		},
		Insights: Insights{
			SalaryRange:      NotSpecified,
			Location:         NotSpecified,
			CompanySize:      NotSpecified,
			CompetitionLevel: NotSpecified,
			IndustryTrends:   []string{},
		},
		ActionItems: []string{},
		Provider:    provider,
		Fallback:    true,
	}
}

// Normalize fills every absent field of a model-produced result with its default.
func (r *AnalysisResult) Normalize() {
	r.Summary = orNotSpecified(r.Summary)
	r.SuggestedSkills = nonNil(r.SuggestedSkills)
	r.Requirements.Required = nonNil(r.Requirements.Required)
	r.Requirements.Preferred = nonNil(r.Requirements.Preferred)
	r.Requirements.Experience = orNotSpecified(r.Requirements.Experience)
	r.Requirements.Education = orNotSpecified(r.Requirements.Education)
	r.Insights.SalaryRange = orNotSpecified(r.Insights.SalaryRange)
	r.Insights.Location = orNotSpecified(r.Insights.Location)
	r.Insights.CompanySize = orNotSpecified(r.Insights.CompanySize)
	r.Insights.CompetitionLevel = normalizeCompetition(r.Insights.CompetitionLevel)
	r.Insights.IndustryTrends = nonNil(r.Insights.IndustryTrends)
	r.ActionItems = nonNil(r.ActionItems)
}

func normalizeCompetition(level string) string {
	for _, l := range []string{CompetitionLow, CompetitionMedium, CompetitionHigh} {
		if strings.EqualFold(strings.TrimSpace(level), l) {
			return l
		}
	}
	return NotSpecified
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSpecified
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
