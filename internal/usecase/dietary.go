package usecase

import (
	"strings"

	"github.com/foodbuddy/backend/internal/domain"
)

// DietaryChecker evaluates an ingredient text against a fixed set of diets
type DietaryChecker interface {
	Check(ingredients string) []domain.DietaryCheck
}

// RegexDietaryChecker evaluates each diet rule independently
type RegexDietaryChecker struct {
	rules []DietRule
}

// NewRegexDietaryChecker creates a checker over the given rules
func NewRegexDietaryChecker(rules *RuleSet) *RegexDietaryChecker {
	return &RegexDietaryChecker{rules: rules.Diets}
}

// Check returns one result per diet, in rule order
func (c *RegexDietaryChecker) Check(ingredients string) []domain.DietaryCheck {
	text := strings.ToLower(ingredients)
	out := make([]domain.DietaryCheck, 0, len(c.rules))
	for _, rule := range c.rules {
		check := domain.DietaryCheck{Name: rule.Name, Status: domain.DietSafe}
		if rule.Pattern.MatchString(text) && (rule.Allow == nil || !rule.Allow.MatchString(text)) {
			check.Status = domain.DietUnsafe
			check.Reason = rule.Reason
		}
		out = append(out, check)
	}
	return out
}
