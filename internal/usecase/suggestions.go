package usecase

import (
	"strings"

	"github.com/foodbuddy/backend/internal/domain"
)

// SuggestionGenerator produces spotlight call-outs, substitute suggestions
// and plain-language risk explanations
type SuggestionGenerator interface {
	Spotlight(ingredients string) []domain.Spotlight
	Alternatives(ingredients string, usage domain.UsageContext) []domain.Alternative
	Explain(risk domain.Risk, usage domain.UsageContext) string
}

// KeywordSuggestionGenerator scans for marker substrings
type KeywordSuggestionGenerator struct {
	rules *RuleSet
}

// NewKeywordSuggestionGenerator creates a generator over the given rules
func NewKeywordSuggestionGenerator(rules *RuleSet) *KeywordSuggestionGenerator {
	return &KeywordSuggestionGenerator{rules: rules}
}

// Spotlight returns up to SpotlightLimit entries, never an empty slice
func (g *KeywordSuggestionGenerator) Spotlight(ingredients string) []domain.Spotlight {
	text := strings.ToLower(ingredients)
	var out []domain.Spotlight
	for _, rule := range g.rules.Spotlight {
		if len(out) == g.rules.SpotlightLimit {
			break
		}
		if containsAny(text, rule.Markers) {
			out = append(out, rule.Entry)
		}
	}
	if len(out) == 0 {
		out = []domain.Spotlight{g.rules.SpotlightFallback}
	}
	return out
}

// Alternatives returns suggestions in rule order, or the single fallback
func (g *KeywordSuggestionGenerator) Alternatives(ingredients string, usage domain.UsageContext) []domain.Alternative {
	text := strings.ToLower(ingredients)
	var out []domain.Alternative
	for _, rule := range g.rules.Alternatives {
		if !containsAny(text, rule.Markers) {
			continue
		}
		alt := rule.Default
		if override, ok := rule.ByContext[usage]; ok {
			alt = override
		}
		out = append(out, alt)
	}
	if len(out) == 0 {
		out = []domain.Alternative{g.rules.AlternativeFallback}
	}
	return out
}

// Explain returns a templated plain-language explanation for a risk
func (g *KeywordSuggestionGenerator) Explain(risk domain.Risk, usage domain.UsageContext) string {
	subject := strings.ToLower(strings.TrimSpace(risk.Title))
	if subject == "" {
		subject = "this ingredient"
	}
	sugar := strings.Contains(subject, "sugar")
	kids := usage == domain.ContextKids

	switch {
	case sugar && kids:
		return "Too much sugar gives kids a quick burst of energy followed by a crash, and it is hard on their teeth."
	case sugar:
		return "Extra sugar adds calories without nutrients and can make your blood sugar jump quickly."
	case kids:
		return "Kids are smaller and still growing, so they may feel the effects of " + subject + " sooner than adults."
	default:
		return "Eaten often or in large amounts, " + subject + " may affect how you feel over time."
	}
}
