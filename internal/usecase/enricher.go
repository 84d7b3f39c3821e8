package usecase

import (
	"github.com/foodbuddy/backend/internal/domain"
)

// Enricher combines a model response with the original ingredient text into
// the view model. It performs no I/O and is safe for concurrent use as long
// as its collaborators are.
type Enricher struct {
	severity    SeverityClassifier
	composition CompositionClassifier
	dietary     DietaryChecker
	suggestions SuggestionGenerator
	confidence  ConfidenceScorer
	cleanLabel  int
}

// EnricherOption customizes an Enricher
type EnricherOption func(*Enricher)

// WithConfidenceScorer replaces the default keyword confidence scorer
func WithConfidenceScorer(s ConfidenceScorer) EnricherOption {
	return func(e *Enricher) { e.confidence = s }
}

// WithSeverityClassifier replaces the keyword severity classifier
func WithSeverityClassifier(c SeverityClassifier) EnricherOption {
	return func(e *Enricher) { e.severity = c }
}

// WithCompositionClassifier replaces the keyword composition classifier
func WithCompositionClassifier(c CompositionClassifier) EnricherOption {
	return func(e *Enricher) { e.composition = c }
}

// WithDietaryChecker replaces the regex dietary checker
func WithDietaryChecker(c DietaryChecker) EnricherOption {
	return func(e *Enricher) { e.dietary = c }
}

// WithSuggestionGenerator replaces the keyword suggestion generator
func WithSuggestionGenerator(g SuggestionGenerator) EnricherOption {
	return func(e *Enricher) { e.suggestions = g }
}

// NewEnricher creates an Enricher with keyword classifiers over rules
func NewEnricher(rules *RuleSet, opts ...EnricherOption) *Enricher {
	if rules == nil {
		rules = DefaultRules()
	}
	severity := NewKeywordSeverityClassifier(rules)
	e := &Enricher{
		severity:    severity,
		composition: NewKeywordCompositionClassifier(rules),
		dietary:     NewRegexDietaryChecker(rules),
		suggestions: NewKeywordSuggestionGenerator(rules),
		confidence:  NewKeywordConfidence(severity),
		cleanLabel:  rules.CleanLabelMax,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich derives breakdown, dietary, spotlight, alternatives and per-risk
// confidence/explanations. An invalid-input analysis passes through with no
// derived fields. The input slices are never modified.
func (e *Enricher) Enrich(raw domain.RawAnalysis, ingredients string, usage domain.UsageContext) domain.EnrichedAnalysis {
	out := domain.EnrichedAnalysis{
		Intent:     raw.Intent,
		Tradeoffs:  copyTradeoffs(raw.Tradeoffs),
		Summary:    raw.Summary,
		Disclaimer: raw.Disclaimer,
	}

	if raw.IsInvalid() {
		if raw.Risks != nil {
			out.Risks = make([]domain.EnrichedRisk, len(raw.Risks))
			for i, r := range raw.Risks {
				out.Risks[i] = domain.EnrichedRisk{Title: r.Title, Description: r.Description}
			}
		}
		return out
	}

	out.Risks = make([]domain.EnrichedRisk, len(raw.Risks))
	for i, r := range raw.Risks {
		out.Risks[i] = domain.EnrichedRisk{
			Title:             r.Title,
			Description:       r.Description,
			Confidence:        e.confidence.Score(r),
			SimpleExplanation: e.suggestions.Explain(r, usage),
		}
	}

	composition := e.composition.Classify(ingredients)
	breakdown := composition.Breakdown
	out.Breakdown = &breakdown
	tokens := len(composition.Tokens)
	out.RawLength = &tokens
	out.Dietary = e.dietary.Check(ingredients)
	out.Spotlight = e.suggestions.Spotlight(ingredients)
	out.Alternatives = e.suggestions.Alternatives(ingredients, usage)

	return out
}

// HealthScore scores an enriched analysis with this enricher's classifier
func (e *Enricher) HealthScore(a *domain.EnrichedAnalysis) int {
	return HealthScoreWith(e.severity, a.RiskDescriptions())
}

// Severities classifies every risk of an enriched analysis
func (e *Enricher) Severities(a *domain.EnrichedAnalysis) []domain.Severity {
	return Severities(e.severity, a.RiskDescriptions())
}

// IsCleanLabel reports whether the analysis has a low additive share
func (e *Enricher) IsCleanLabel(a *domain.EnrichedAnalysis) bool {
	if a.Breakdown == nil {
		return false
	}
	return CleanLabel(*a.Breakdown, e.cleanLabel)
}

// SeverityClassifier returns the classifier used for scoring
func (e *Enricher) SeverityClassifier() SeverityClassifier {
	return e.severity
}

func copyTradeoffs(in []domain.Tradeoff) []domain.Tradeoff {
	if in == nil {
		return nil
	}
	out := make([]domain.Tradeoff, len(in))
	copy(out, in)
	return out
}
