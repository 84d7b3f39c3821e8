package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/foodbuddy/backend/internal/domain"
	"github.com/foodbuddy/backend/internal/metrics"
	"github.com/google/uuid"
)

// Result sources reported to callers and metrics
const (
	SourceLLM   = "LLM"
	SourceCache = "Cache"
)

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// AnalysisService runs the analysis flow for a single ingredient list
type AnalysisService struct {
	cache        domain.CacheRepository
	client       domain.AnalysisClient
	history      domain.HistoryRepository
	ocr          domain.TextExtractor
	enricher     *Enricher
	preprocessor *IngredientPreprocessor
	cacheTTL     time.Duration
	now          func() time.Time
	newID        func() string
}

// NewAnalysisService creates a new analysis service with dependencies.
// history and ocr may be nil: saving is then skipped and image analysis
// returns ErrOCRUnavailable.
func NewAnalysisService(
	cache domain.CacheRepository,
	client domain.AnalysisClient,
	history domain.HistoryRepository,
	ocr domain.TextExtractor,
	enricher *Enricher,
	config AnalysisServiceConfig,
) *AnalysisService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	if enricher == nil {
		enricher = NewEnricher(DefaultRules())
	}

	return &AnalysisService{
		cache:        cache,
		client:       client,
		history:      history,
		ocr:          ocr,
		enricher:     enricher,
		preprocessor: NewIngredientPreprocessor(config.EnableDebugLogging),
		cacheTTL:     cacheTTL,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Enricher returns the enricher used by the service
func (s *AnalysisService) Enricher() *Enricher {
	return s.enricher
}

// Analyze analyzes an ingredient list.
// Flow: clean -> check cache -> ask model -> cache -> enrich -> optionally save
func (s *AnalysisService) Analyze(ctx context.Context, request *domain.AnalyzeRequest) (*domain.AnalysisResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	usage := domain.ParseUsageContext(request.Context)
	enriched, source, err := s.evaluate(ctx, request.Ingredients, usage)
	if err != nil {
		return nil, err
	}

	result := &domain.AnalysisResult{
		Result:      *enriched,
		HealthScore: s.enricher.HealthScore(enriched),
		Severities:  s.enricher.Severities(enriched),
		CleanLabel:  s.enricher.IsCleanLabel(enriched),
		Source:      source,
	}

	if enriched.IsInvalid() {
		metrics.RecordAnalysis(source, "invalid_input")
		return result, nil
	}
	metrics.RecordAnalysis(source, "ok")
	metrics.RecordHealthScore(result.HealthScore)

	if request.Save && s.history != nil {
		item := &domain.HistoryItem{
			ID:          s.newID(),
			Ingredients: strings.TrimSpace(request.Ingredients),
			Result:      *enriched,
			HealthScore: result.HealthScore,
			Timestamp:   s.now().UTC(),
			Context:     usage,
		}
		if err := s.history.Save(ctx, item); err != nil {
			// A failed save does not fail the analysis the user is waiting for
			log.Printf("[ANALYZE] Failed to save history item: %v", err)
		} else {
			result.ID = item.ID
		}
	}

	return result, nil
}

// AnalyzeImage extracts ingredient text from an image and analyzes it
func (s *AnalysisService) AnalyzeImage(ctx context.Context, image []byte, usageContext string, save bool) (*domain.AnalysisResult, error) {
	if s.ocr == nil {
		return nil, domain.ErrOCRUnavailable
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image is empty", domain.ErrInvalidRequest)
	}

	text, err := s.ocr.ExtractText(ctx, image)
	if err != nil {
		return nil, err
	}
	if s.preprocessor.Clean(text) == "" {
		return nil, domain.ErrNoTextDetected
	}

	return s.Analyze(ctx, &domain.AnalyzeRequest{
		Ingredients: text,
		Context:     usageContext,
		Save:        save,
	})
}

// Evaluate returns the enriched analysis of an ingredient list without
// saving it. Used by comparisons.
func (s *AnalysisService) Evaluate(ctx context.Context, ingredients string, usage domain.UsageContext) (*domain.EnrichedAnalysis, error) {
	enriched, _, err := s.evaluate(ctx, ingredients, usage)
	return enriched, err
}

func (s *AnalysisService) evaluate(ctx context.Context, ingredients string, usage domain.UsageContext) (*domain.EnrichedAnalysis, string, error) {
	cleaned := s.preprocessor.Clean(ingredients)
	if cleaned == "" {
		return nil, "", fmt.Errorf("%w: ingredients text is required", domain.ErrInvalidRequest)
	}

	raw, source, err := s.fetchRaw(ctx, cleaned)
	if err != nil {
		metrics.RecordAnalysis(SourceLLM, "error")
		return nil, "", err
	}

	enriched := s.enricher.Enrich(*raw, cleaned, usage)
	return &enriched, source, nil
}

// fetchRaw returns the model output for cleaned text, from cache when possible
func (s *AnalysisService) fetchRaw(ctx context.Context, cleaned string) (*domain.RawAnalysis, string, error) {
	cacheKey := s.preprocessor.CacheKey(cleaned)

	cached, err := s.getFromCache(ctx, cacheKey)
	if err == nil && cached != nil {
		return cached, SourceCache, nil
	}
	if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		log.Printf("[ANALYZE] Cache read failed for %s: %v", cacheKey, err)
	}

	raw, err := s.client.Analyze(ctx, cleaned)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamFailure) || errors.Is(err, domain.ErrMalformedResponse) ||
			errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	if raw == nil {
		return nil, "", fmt.Errorf("%w: empty analysis", domain.ErrMalformedResponse)
	}

	if err := s.cache.Set(ctx, cacheKey, raw, s.cacheTTL); err != nil {
		log.Printf("[ANALYZE] Cache write failed for %s: %v", cacheKey, err)
	}

	return raw, SourceLLM, nil
}

// getFromCache retrieves a model output from cache
func (s *AnalysisService) getFromCache(ctx context.Context, key string) (*domain.RawAnalysis, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case *domain.RawAnalysis:
		return v, nil
	case domain.RawAnalysis:
		return &v, nil
	}

	// Caches that serialize (memory, redis) hand back decoded JSON
	data, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	var raw domain.RawAnalysis
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &raw, nil
}
