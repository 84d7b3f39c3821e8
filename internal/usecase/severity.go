package usecase

import (
	"strings"

	"github.com/foodbuddy/backend/internal/domain"
)

// Per-severity deductions from a perfect health score
const (
	maxHealthScore  = 100
	highDeduction   = 20
	mediumDeduction = 10
	lowDeduction    = 5
)

// SeverityClassifier maps a risk description to a severity tier
type SeverityClassifier interface {
	Classify(description string) domain.Severity
}

// KeywordSeverityClassifier classifies by keyword membership; the first
// rule with a matching keyword wins.
type KeywordSeverityClassifier struct {
	rules []SeverityRule
}

// NewKeywordSeverityClassifier creates a classifier over the given rules
func NewKeywordSeverityClassifier(rules *RuleSet) *KeywordSeverityClassifier {
	return &KeywordSeverityClassifier{rules: rules.Severity}
}

// Classify returns the severity of a description. Empty text is low.
func (c *KeywordSeverityClassifier) Classify(description string) domain.Severity {
	text := strings.ToLower(description)
	for _, rule := range c.rules {
		if containsAny(text, rule.Keywords) {
			return rule.Severity
		}
	}
	return domain.SeverityLow
}

var defaultSeverity = NewKeywordSeverityClassifier(DefaultRules())

// ClassifySeverity classifies a description with the default rules
func ClassifySeverity(description string) domain.Severity {
	return defaultSeverity.Classify(description)
}

// HealthScore folds risk descriptions into a score in [0,100] using the
// default rules. An empty list scores 100.
func HealthScore(descriptions []string) int {
	return HealthScoreWith(defaultSeverity, descriptions)
}

// HealthScoreWith is HealthScore with an explicit classifier
func HealthScoreWith(classifier SeverityClassifier, descriptions []string) int {
	score := maxHealthScore
	for _, d := range descriptions {
		switch classifier.Classify(d) {
		case domain.SeverityHigh:
			score -= highDeduction
		case domain.SeverityMedium:
			score -= mediumDeduction
		default:
			score -= lowDeduction
		}
	}
	return clamp(score, 0, maxHealthScore)
}

// Severities classifies every description, preserving order
func Severities(classifier SeverityClassifier, descriptions []string) []domain.Severity {
	out := make([]domain.Severity, len(descriptions))
	for i, d := range descriptions {
		out[i] = classifier.Classify(d)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
