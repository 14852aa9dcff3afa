// Package analysis derives a best-effort job analysis from raw text with no
// external calls. Every function here is pure and deterministic.
package analysis

import (
	"regexp"
	"strings"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

const (
	DefaultSummaryMaxChars = 220
	maxSkills              = 10
)

// Patterns compiled once at package init.
var (
	reSkillsLine = regexp.MustCompile(`(?i)skills?:\s*([^\n]+)`)
	reSkillCues  = []*regexp.Regexp{
		regexp.MustCompile(`(?i)experience (?:with|in|using)\s*([^.\n]+)`),
		regexp.MustCompile(`(?i)proficient in\s*([^.\n]+)`),
		regexp.MustCompile(`(?i)knowledge of\s*([^.\n]+)`),
	}
	reSkillSplit = regexp.MustCompile(`(?i)\s*(?:,|/|&|\band\b)\s*`)

	reExperience = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)\b`)
	reDegree     = regexp.MustCompile(`(?i)\b(bachelor'?s?|b\.sc|bsc|master'?s?|msc|ph\.?d|associate'?s?)\b`)
	reSalary     = regexp.MustCompile(`(?:\$|£|€|₦)\s?[\d,]+(?:\s?-\s?(?:\$|£|€|₦)?\s?[\d,]+)?`)
	reRemote     = regexp.MustCompile(`(?i)remote|work from home|wfh`)
	reCity       = regexp.MustCompile(`(?i)london|new york|san francisco|lagos|nigeria|hybrid|onsite|berlin|tokyo|singapore|dubai|abuja`)
	reStartup    = regexp.MustCompile(`(?i)startup|early-stage|seed`)
	reScaleup    = regexp.MustCompile(`(?i)scaleup|series b|growth`)
	reLarge      = regexp.MustCompile(`(?i)enterprise|1000|large company|corporation`)
	reSeniority  = regexp.MustCompile(`(?i)senior|lead|principal|director`)
	reHealthcare = regexp.MustCompile(`(?i)nurs|clinic|patient|medical`)
	reFinance    = regexp.MustCompile(`(?i)account|finance|audit|bookkeeping`)
	reRetail     = regexp.MustCompile(`(?i)sales|retail|crm|store`)
)

// skillVocabulary spans professional, technical and trade terms so the
// extractor stays useful outside software roles.
var skillVocabulary = []string{
	"communication", "customer service", "project management", "leadership", "sales", "negotiation",
	"problem solving", "time management", "teamwork", "excel", "accounting", "bookkeeping",
	"financial modelling", "quickbooks", "marketing", "seo", "social media", "nursing", "clinical",
	"patient care", "logistics", "supply chain", "warehouse", "electrician", "plumbing", "carpentry",
	"hospitality", "teaching", "research", "data analysis", "javascript", "typescript", "react",
	"next.js", "node", "python", "sql", "docker", "kubernetes", "aws", "photoshop", "figma",
}

var (
	healthcareTrends = []string{"Telehealth adoption", "Regulatory compliance", "Clinical automation"}
	financeTrends    = []string{"Regulatory automation", "Data analytics", "Security and fraud prevention"}
	retailTrends     = []string{"E-commerce growth", "Omnichannel experience", "CRM personalization"}
	genericTrends    = []string{
		"Remote/hybrid work where possible",
		"AI/automation increasing productivity",
		"Focus on regulatory & sustainability concerns",
	}
)

var actionItems = []string{
	"Tailor your resume to highlight the skills and keywords above.",
	"Include measurable results (KPIs, percentages).",
	"Prepare concise examples that demonstrate relevant experience.",
	"State remote/relocation preference if location matters.",
}

// Extractor produces local analyses. The zero value uses DefaultSummaryMaxChars.
type Extractor struct {
	SummaryMaxChars int
}

// NewExtractor returns an Extractor truncating summaries to summaryMax runes.
func NewExtractor(summaryMax int) *Extractor {
	return &Extractor{SummaryMaxChars: summaryMax}
}

// Analyze returns a fully populated result tagged local/fallback.
func (e *Extractor) Analyze(text string) models.AnalysisResult {
	limit := e.SummaryMaxChars
	if limit <= 0 {
		limit = DefaultSummaryMaxChars
	}

	return models.AnalysisResult{
		Summary:         Summarize(text, limit),
		SuggestedSkills: ExtractSkills(text),
		Requirements: models.Requirements{
			Required:   []string{},
			Preferred:  []string{},
			Experience: Experience(text),
			Education:  Education(text),
		},
		Insights: models.Insights{
			SalaryRange:      SalaryRange(text),
			Location:         Location(text),
			CompanySize:      CompanySize(text),
			CompetitionLevel: CompetitionLevel(text),
			IndustryTrends:   IndustryTrends(text),
		},
		ActionItems: append([]string(nil), actionItems...),
		Provider:    models.ProviderLocal,
		Fallback:    true,
	}
}

// Summarize collapses whitespace and truncates to limit runes with an ellipsis.
func Summarize(text string, limit int) string {
	clean := strings.Join(strings.Fields(text), " ")
	runes := []rune(clean)
	if len(runes) <= limit {
		return clean
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

// ExtractSkills collects cue-phrase captures followed by vocabulary hits,
// lower-cased, de-duplicated in discovery order and capped at ten.
func ExtractSkills(text string) []string {
	skills := make([]string, 0, maxSkills)
	seen := make(map[string]struct{})
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ".")))
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		skills = append(skills, s)
	}
	addCapture := func(capture string) {
		for _, part := range reSkillSplit.Split(capture, -1) {
			add(part)
		}
	}

	if m := reSkillsLine.FindStringSubmatch(text); m != nil {
		addCapture(m[1])
	}
	for _, re := range reSkillCues {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			addCapture(m[1])
		}
	}

	lower := strings.ToLower(text)
	for _, k := range skillVocabulary {
		if strings.Contains(lower, k) {
			add(k)
		}
	}

	if len(skills) > maxSkills {
		skills = skills[:maxSkills]
	}
	return skills
}

// Experience reports the first "N years" mention as "N+ years".
func Experience(text string) string {
	m := reExperience.FindStringSubmatch(text)
	if m == nil {
		return models.NotSpecified
	}
	return m[1] + "+ years"
}

// Education maps the first degree keyword to one of three canned phrases.
func Education(text string) string {
	m := reDegree.FindString(text)
	if m == "" {
		return models.NotSpecified
	}
	d := strings.ToLower(m)
	switch {
	case strings.HasPrefix(d, "master"), d == "msc", strings.HasPrefix(d, "ph"):
		return "Masters or higher (preferred)"
	case strings.HasPrefix(d, "associate"):
		return "Associate or Bachelor's (preferred)"
	default:
		return "Bachelor's degree (or equivalent) preferred"
	}
}

// SalaryRange returns the first currency amount or range verbatim.
func SalaryRange(text string) string {
	if m := reSalary.FindString(text); m != "" {
		return m
	}
	return models.NotSpecified
}

func Location(text string) string {
	if reRemote.MatchString(text) {
		return "Remote"
	}
	if m := reCity.FindString(text); m != "" {
		return m
	}
	return models.NotSpecified
}

func CompanySize(text string) string {
	switch {
	case reStartup.MatchString(text):
		return "Startup (1-50)"
	case reScaleup.MatchString(text):
		return "Scale-up (50-250)"
	case reLarge.MatchString(text):
		return "Large (1000+)"
	}
	return models.NotSpecified
}

func CompetitionLevel(text string) string {
	if reSeniority.MatchString(text) {
		return models.CompetitionMedium
	}
	return models.CompetitionHigh
}

// IndustryTrends picks a canned trend list by broad domain. Blank text has no trends.
func IndustryTrends(text string) []string {
	var trends []string
	switch {
	case strings.TrimSpace(text) == "":
		return []string{}
	case reHealthcare.MatchString(text):
		trends = healthcareTrends
	case reFinance.MatchString(text):
		trends = financeTrends
	case reRetail.MatchString(text):
		trends = retailTrends
	default:
		trends = genericTrends
	}
	return append([]string(nil), trends...)
}
