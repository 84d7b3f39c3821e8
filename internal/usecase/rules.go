package usecase

import (
	"regexp"
	"strings"

	"github.com/foodbuddy/backend/internal/domain"
)

// RulesVersion identifies the keyword tables below. Bump it whenever a
// keyword is added or removed so cached results can be told apart.
const RulesVersion = "2"

// SeverityRule maps keywords to a severity tier
type SeverityRule struct {
	Severity domain.Severity
	Keywords []string
}

// CompositionCategory is the bucket an ingredient token falls into
type CompositionCategory string

const (
	CategoryNatural   CompositionCategory = "natural"
	CategoryProcessed CompositionCategory = "processed"
	CategoryAdditive  CompositionCategory = "additive"
)

// CompositionRule maps keywords to a composition category
type CompositionRule struct {
	Category CompositionCategory
	Keywords []string
}

// DietRule flags a diet as unsafe when Pattern matches, unless Allow matches
type DietRule struct {
	Name    string
	Pattern *regexp.Regexp
	Allow   *regexp.Regexp
	Reason  string
}

// SpotlightRule emits Entry when any marker is present
type SpotlightRule struct {
	Markers []string
	Entry   domain.Spotlight
}

// AlternativeRule emits a suggestion when any marker is present.
// ByContext overrides Default for specific usage contexts.
type AlternativeRule struct {
	Markers   []string
	Default   domain.Alternative
	ByContext map[domain.UsageContext]domain.Alternative
}

// RuleSet is the complete keyword table used by the keyword classifiers.
// Order matters inside every slice: the first matching rule wins where
// classification is exclusive, and emission order follows slice order
// where it is not.
type RuleSet struct {
	Severity            []SeverityRule
	Composition         []CompositionRule
	Diets               []DietRule
	Spotlight           []SpotlightRule
	SpotlightLimit      int
	SpotlightFallback   domain.Spotlight
	Alternatives        []AlternativeRule
	AlternativeFallback domain.Alternative
	CleanLabelMax       int
}

// DefaultRules returns the built-in keyword tables
func DefaultRules() *RuleSet {
	return &RuleSet{
		Severity: []SeverityRule{
			{Severity: domain.SeverityHigh, Keywords: []string{"cancer", "diabetes", "obesity", "toxic"}},
			{Severity: domain.SeverityMedium, Keywords: []string{"irritation", "allergic", "hyperactivity"}},
		},
		Composition: []CompositionRule{
			{Category: CategoryProcessed, Keywords: []string{"extract", "syrup", "flour", "oil", "salt", "sugar"}},
			{Category: CategoryAdditive, Keywords: []string{"red", "blue", "yellow", "acid", "gum", "benzoate", "sorbate", "glutamate"}},
		},
		Diets: []DietRule{
			{
				Name:    "Vegan",
				Pattern: wordPrefixPattern("milk", "whey", "casein", "cheese", "butter", "cream", "yogurt", "lactose", "egg", "honey", "beef", "chicken", "pork", "gelatin"),
				Reason:  "Animal Products",
			},
			{
				Name:    "Gluten-Free",
				Pattern: wordPrefixPattern("wheat", "barley", "rye", "malt", "gluten", "flour"),
				Allow:   wordPrefixPattern("almond flour", "coconut flour", "rice flour"),
				Reason:  "Contains Gluten",
			},
			{
				Name:    "Keto",
				Pattern: wordPrefixPattern("sugar", "syrup", "dextrose", "fructose", "maltodextrin", "corn", "potato", "rice", "flour", "oats"),
				Reason:  "High Carbs",
			},
		},
		Spotlight: []SpotlightRule{
			{
				Markers: []string{"whole grain", "oats", "wheat"},
				Entry:   domain.Spotlight{Name: "Whole Grains", Type: domain.SpotlightGood, Description: "Grains add fiber that supports digestion and steady energy."},
			},
			{
				Markers: []string{"protein", "chicken", "egg", "whey"},
				Entry:   domain.Spotlight{Name: "Protein", Type: domain.SpotlightGood, Description: "Protein helps build and repair muscle and keeps you full longer."},
			},
			{
				Markers: []string{"fructose", "corn syrup"},
				Entry:   domain.Spotlight{Name: "Added Sugars", Type: domain.SpotlightBad, Description: "Concentrated sweeteners spike blood sugar and add empty calories."},
			},
			{
				Markers: []string{"red 40", "blue 1"},
				Entry:   domain.Spotlight{Name: "Artificial Colors", Type: domain.SpotlightBad, Description: "Synthetic dyes add no nutrition and are linked to hyperactivity in some children."},
			},
			{
				Markers: []string{"palm oil"},
				Entry:   domain.Spotlight{Name: "Palm Oil", Type: domain.SpotlightBad, Description: "Palm oil is high in saturated fat."},
			},
		},
		SpotlightLimit:    4,
		SpotlightFallback: domain.Spotlight{Name: "Ingredients", Type: domain.SpotlightNeutral, Description: "Standard Mix"},
		Alternatives: []AlternativeRule{
			{
				Markers: []string{"sugar", "syrup"},
				Default: domain.Alternative{Title: "Natural Sweeteners", Description: "Look for versions sweetened with stevia or monk fruit instead of sugar."},
				ByContext: map[domain.UsageContext]domain.Alternative{
					domain.ContextKids: {Title: "Diluted Juice", Description: "Offer water with a splash of 100% fruit juice instead of sugary drinks and snacks."},
				},
			},
			{
				Markers: []string{"oil", "fried"},
				Default: domain.Alternative{Title: "Air-Popped Snacks", Description: "Choose air-popped or baked snacks over fried, oil-heavy options."},
			},
		},
		AlternativeFallback: domain.Alternative{Title: "Whole Food Option", Description: "Pair or replace this product with minimally processed whole foods."},
		CleanLabelMax:       20,
	}
}

// wordPrefixPattern matches any of the terms starting at a word boundary,
// so "eggs" matches "egg" but "licorice" does not match "rice".
func wordPrefixPattern(terms ...string) *regexp.Regexp {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)`)
}

// containsAny reports whether text contains any of the keywords
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
