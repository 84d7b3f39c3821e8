package domain

import "strings"

// InvalidInputIntent is the intent the analysis service returns when the
// submitted text is not a food ingredient list.
const InvalidInputIntent = "Invalid input"

// RawAnalysis is the structured analysis returned by the language model
type RawAnalysis struct {
	Intent     string     `json:"intent"`
	Risks      []Risk     `json:"risks"`
	Tradeoffs  []Tradeoff `json:"tradeoffs"`
	Summary    string     `json:"summary"`
	Disclaimer string     `json:"disclaimer"`
}

// IsInvalid reports whether the model rejected the input
func (r *RawAnalysis) IsInvalid() bool {
	return r.Intent == InvalidInputIntent
}

// Risk is a single health risk as described by the model
type Risk struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Tradeoff is a single trade-off as described by the model
type Tradeoff struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Confidence is the confidence tag attached to an enriched risk
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
)

// EnrichedRisk is a Risk plus the fields added during enrichment.
// Both added fields are omitted for invalid-input passthrough.
type EnrichedRisk struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Confidence        Confidence `json:"confidence,omitempty"`
	SimpleExplanation string     `json:"simple_explanation,omitempty"`
}

// Breakdown is the percentage split of ingredient tokens
type Breakdown struct {
	Natural   int `json:"natural"`
	Processed int `json:"processed"`
	Additives int `json:"additives"`
}

// DietStatus is the compliance status of a single diet
type DietStatus string

const (
	DietSafe    DietStatus = "safe"
	DietUnsafe  DietStatus = "unsafe"
	DietWarning DietStatus = "warning"
)

// DietaryCheck is the compliance result for one diet
type DietaryCheck struct {
	Name   string     `json:"name"`
	Status DietStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

// SpotlightType tags a spotlight entry
type SpotlightType string

const (
	SpotlightGood    SpotlightType = "good"
	SpotlightBad     SpotlightType = "bad"
	SpotlightNeutral SpotlightType = "neutral"
)

// Spotlight is a short call-out for a notable ingredient
type Spotlight struct {
	Name        string        `json:"name"`
	Type        SpotlightType `json:"type"`
	Description string        `json:"description"`
}

// Alternative is a substitute suggestion
type Alternative struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// EnrichedAnalysis is the view model produced from a RawAnalysis and the
// original ingredient text. Derived fields are nil for invalid input so the
// JSON form of a passthrough equals the JSON form of the raw analysis.
type EnrichedAnalysis struct {
	Intent       string         `json:"intent"`
	Risks        []EnrichedRisk `json:"risks"`
	Tradeoffs    []Tradeoff     `json:"tradeoffs"`
	Summary      string         `json:"summary"`
	Disclaimer   string         `json:"disclaimer"`
	Breakdown    *Breakdown     `json:"breakdown,omitempty"`
	Dietary      []DietaryCheck `json:"dietary,omitempty"`
	Spotlight    []Spotlight    `json:"spotlight,omitempty"`
	Alternatives []Alternative  `json:"alternatives,omitempty"`
	RawLength    *int           `json:"_rawLength,omitempty"`
}

// TokenCount returns the number of ingredient tokens, zero for a passthrough
func (e *EnrichedAnalysis) TokenCount() int {
	if e.RawLength == nil {
		return 0
	}
	return *e.RawLength
}

// IsInvalid reports whether the analysis is an invalid-input passthrough
func (e *EnrichedAnalysis) IsInvalid() bool {
	return e.Intent == InvalidInputIntent
}

// Raw strips every derived field and returns the underlying model output
func (e *EnrichedAnalysis) Raw() RawAnalysis {
	raw := RawAnalysis{
		Intent:     e.Intent,
		Tradeoffs:  e.Tradeoffs,
		Summary:    e.Summary,
		Disclaimer: e.Disclaimer,
	}
	if e.Risks != nil {
		raw.Risks = make([]Risk, len(e.Risks))
		for i, r := range e.Risks {
			raw.Risks[i] = Risk{Title: r.Title, Description: r.Description}
		}
	}
	return raw
}

// RiskDescriptions returns the description of every risk, in order
func (e *EnrichedAnalysis) RiskDescriptions() []string {
	out := make([]string, len(e.Risks))
	for i, r := range e.Risks {
		out[i] = r.Description
	}
	return out
}

// Severity is the derived tier of a risk description
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// UsageContext adjusts suggestion wording for a usage scenario
type UsageContext string

const (
	ContextGeneral UsageContext = "general"
	ContextKids    UsageContext = "kids"
	ContextAthlete UsageContext = "athlete"
	ContextVegan   UsageContext = "vegan"
)

// ParseUsageContext normalizes a context tag, falling back to general
func ParseUsageContext(s string) UsageContext {
	switch c := UsageContext(strings.ToLower(strings.TrimSpace(s))); c {
	case ContextKids, ContextAthlete, ContextVegan:
		return c
	default:
		return ContextGeneral
	}
}
