package usecase

import (
	"math"
	"regexp"
	"strings"

	"github.com/foodbuddy/backend/internal/domain"
)

var ingredientSeparator = regexp.MustCompile(`[,;]`)

// Composition is the classified token list of an ingredient string
type Composition struct {
	Tokens    []string
	Counts    map[CompositionCategory]int
	Breakdown domain.Breakdown
}

// CompositionClassifier splits and classifies an ingredient string
type CompositionClassifier interface {
	Classify(ingredients string) Composition
}

// KeywordCompositionClassifier buckets tokens by keyword; the first
// matching rule wins and unmatched tokens are natural.
type KeywordCompositionClassifier struct {
	rules []CompositionRule
}

// NewKeywordCompositionClassifier creates a classifier over the given rules
func NewKeywordCompositionClassifier(rules *RuleSet) *KeywordCompositionClassifier {
	return &KeywordCompositionClassifier{rules: rules.Composition}
}

// Classify tokenizes the ingredient string and computes the breakdown.
// With zero tokens every percentage is 0.
func (c *KeywordCompositionClassifier) Classify(ingredients string) Composition {
	tokens := SplitIngredients(ingredients)
	counts := map[CompositionCategory]int{
		CategoryNatural:   0,
		CategoryProcessed: 0,
		CategoryAdditive:  0,
	}
	for _, token := range tokens {
		counts[c.category(token)]++
	}

	total := len(tokens)
	if total < 1 {
		total = 1
	}

	return Composition{
		Tokens: tokens,
		Counts: counts,
		Breakdown: domain.Breakdown{
			Natural:   percent(counts[CategoryNatural], total),
			Processed: percent(counts[CategoryProcessed], total),
			Additives: percent(counts[CategoryAdditive], total),
		},
	}
}

func (c *KeywordCompositionClassifier) category(token string) CompositionCategory {
	for _, rule := range c.rules {
		if containsAny(token, rule.Keywords) {
			return rule.Category
		}
	}
	return CategoryNatural
}

// SplitIngredients splits on "," or ";" into trimmed lowercase tokens.
// Whitespace-only tokens are dropped.
func SplitIngredients(ingredients string) []string {
	parts := ingredientSeparator.Split(strings.ToLower(ingredients), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// CleanLabel reports whether the additive share is below the threshold
func CleanLabel(b domain.Breakdown, maxAdditives int) bool {
	return b.Additives < maxAdditives
}

func percent(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}
