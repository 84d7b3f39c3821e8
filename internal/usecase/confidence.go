package usecase

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/foodbuddy/backend/internal/domain"
)

// Confidence modes selectable from configuration
const (
	ConfidenceModeKeyword = "keyword"
	ConfidenceModeRandom  = "random"
)

// ConfidenceScorer assigns a confidence tag to a model-reported risk
type ConfidenceScorer interface {
	Score(risk domain.Risk) domain.Confidence
}

// KeywordConfidence is deterministic: a risk whose description carries a
// recognised severity keyword is High, anything else is Medium.
type KeywordConfidence struct {
	classifier SeverityClassifier
}

// NewKeywordConfidence creates a scorer backed by a severity classifier
func NewKeywordConfidence(classifier SeverityClassifier) *KeywordConfidence {
	return &KeywordConfidence{classifier: classifier}
}

// Score implements ConfidenceScorer
func (k *KeywordConfidence) Score(risk domain.Risk) domain.Confidence {
	if k.classifier.Classify(risk.Description) == domain.SeverityLow {
		return domain.ConfidenceMedium
	}
	return domain.ConfidenceHigh
}

// RandomConfidence draws High with probability highRatio. Output is not
// reproducible across runs unless the source is seeded.
type RandomConfidence struct {
	mu        sync.Mutex
	rng       *rand.Rand
	highRatio float64
}

// NewRandomConfidence creates a scorer drawing from rng
func NewRandomConfidence(rng *rand.Rand, highRatio float64) *RandomConfidence {
	return &RandomConfidence{rng: rng, highRatio: highRatio}
}

// Score implements ConfidenceScorer
func (r *RandomConfidence) Score(domain.Risk) domain.Confidence {
	r.mu.Lock()
	draw := r.rng.Float64()
	r.mu.Unlock()
	if draw < r.highRatio {
		return domain.ConfidenceHigh
	}
	return domain.ConfidenceMedium
}

// NewConfidenceScorer builds the scorer named by mode
func NewConfidenceScorer(mode string, classifier SeverityClassifier, seed int64) (ConfidenceScorer, error) {
	switch mode {
	case "", ConfidenceModeKeyword:
		return NewKeywordConfidence(classifier), nil
	case ConfidenceModeRandom:
		return NewRandomConfidence(rand.New(rand.NewSource(seed)), 0.6), nil
	default:
		return nil, fmt.Errorf("%w: unknown confidence mode %q", domain.ErrInvalidRequest, mode)
	}
}
