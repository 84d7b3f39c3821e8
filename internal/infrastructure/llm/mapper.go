package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/foodbuddy/backend/internal/domain"
)

// ParseAnalysis decodes model output into a RawAnalysis.
// Markdown fences and text around the JSON object are tolerated; anything
// else that does not decode, or lacks an intent, is ErrMalformedResponse.
func ParseAnalysis(content string) (*domain.RawAnalysis, error) {
	body := extractJSONObject(content)
	if body == "" {
		return nil, fmt.Errorf("%w: no JSON object in output", domain.ErrMalformedResponse)
	}

	var analysis domain.RawAnalysis
	if err := json.Unmarshal([]byte(body), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	analysis.Intent = strings.TrimSpace(analysis.Intent)
	if analysis.Intent == "" {
		return nil, fmt.Errorf("%w: missing intent", domain.ErrMalformedResponse)
	}

	return normalize(&analysis), nil
}

// extractJSONObject returns the outermost {...} span of the content
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}

// normalize trims text fields, drops empty entries and canonicalizes the
// invalid-input sentinel
func normalize(a *domain.RawAnalysis) *domain.RawAnalysis {
	a.Summary = strings.TrimSpace(a.Summary)
	a.Disclaimer = strings.TrimSpace(a.Disclaimer)

	if strings.EqualFold(a.Intent, domain.InvalidInputIntent) {
		a.Intent = domain.InvalidInputIntent
		a.Risks = []domain.Risk{}
		a.Tradeoffs = []domain.Tradeoff{}
		return a
	}

	risks := make([]domain.Risk, 0, len(a.Risks))
	for _, r := range a.Risks {
		r.Title = strings.TrimSpace(r.Title)
		r.Description = strings.TrimSpace(r.Description)
		if r.Title == "" && r.Description == "" {
			continue
		}
		risks = append(risks, r)
	}
	a.Risks = risks

	tradeoffs := make([]domain.Tradeoff, 0, len(a.Tradeoffs))
	for _, t := range a.Tradeoffs {
		t.Title = strings.TrimSpace(t.Title)
		t.Description = strings.TrimSpace(t.Description)
		if t.Title == "" && t.Description == "" {
			continue
		}
		tradeoffs = append(tradeoffs, t)
	}
	a.Tradeoffs = tradeoffs

	return a
}
