package usecase

import (
	"fmt"
	"strings"

	"github.com/foodbuddy/backend/internal/domain"
)

const (
	dailyUseMinScore  = 80
	simpleMaxTokens   = 5
	moderateMaxTokens = 12
	tagWeightLoss     = "Weight Loss"
	tagKids           = "Kids"
	tagDailyUse       = "Daily Use"
)

// Comparator compares two enriched analyses
type Comparator struct {
	severity SeverityClassifier
}

// NewComparator creates a Comparator scoring with the given classifier
func NewComparator(severity SeverityClassifier) *Comparator {
	if severity == nil {
		severity = defaultSeverity
	}
	return &Comparator{severity: severity}
}

// Compare declares a winner by health score (A wins ties), names the first
// high-severity risk the loser carries and tags what the winner suits.
func (c *Comparator) Compare(a, b *domain.EnrichedAnalysis) domain.Comparison {
	scoreA := HealthScoreWith(c.severity, a.RiskDescriptions())
	scoreB := HealthScoreWith(c.severity, b.RiskDescriptions())

	winner, loser := domain.ProductA, domain.ProductB
	winning, losing := a, b
	winningScore := scoreA
	if scoreA < scoreB {
		winner, loser = domain.ProductB, domain.ProductA
		winning, losing = b, a
		winningScore = scoreB
	}

	insight := fmt.Sprintf("%s is the healthier choice: it has fewer additives than %s.", winner, loser)
	for _, r := range losing.Risks {
		if c.severity.Classify(r.Description) == domain.SeverityHigh {
			insight = fmt.Sprintf("%s is the healthier choice: it avoids the %s found in %s.", winner, strings.ToLower(r.Title), loser)
			break
		}
	}

	return domain.Comparison{
		Winner:  winner,
		Insight: insight,
		BestFor: domain.BestFor{
			Winner: winner,
			Tags:   bestForTags(winning, winningScore),
		},
		ScoreA:     scoreA,
		ScoreB:     scoreB,
		Complexity: [2]string{ComplexityLabel(a.TokenCount()), ComplexityLabel(b.TokenCount())},
	}
}

func bestForTags(winner *domain.EnrichedAnalysis, score int) []string {
	tags := []string{}

	sugar, hyperactivity := false, false
	for _, r := range winner.Risks {
		if strings.Contains(strings.ToLower(r.Title), "sugar") {
			sugar = true
		}
		if strings.Contains(strings.ToLower(r.Description), "hyperactivity") {
			hyperactivity = true
		}
	}

	if !sugar {
		tags = append(tags, tagWeightLoss)
	}
	if !hyperactivity {
		tags = append(tags, tagKids)
	}
	if score > dailyUseMinScore {
		tags = append(tags, tagDailyUse)
	}
	return tags
}

// ComplexityLabel is a coarse label for an ingredient token count
func ComplexityLabel(tokens int) string {
	switch {
	case tokens <= simpleMaxTokens:
		return "simple"
	case tokens <= moderateMaxTokens:
		return "moderate"
	default:
		return "complex"
	}
}
