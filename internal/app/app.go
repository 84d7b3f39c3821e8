// Package app wires configuration into the FoodBuddy services shared by the
// HTTP server, the CLI and the MCP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/foodbuddy/backend/config"
	"github.com/foodbuddy/backend/internal/domain"
	"github.com/foodbuddy/backend/internal/infrastructure/cache"
	"github.com/foodbuddy/backend/internal/infrastructure/llm"
	"github.com/foodbuddy/backend/internal/infrastructure/ocr"
	"github.com/foodbuddy/backend/internal/infrastructure/storage"
	"github.com/foodbuddy/backend/internal/usecase"
)

// App holds the wired services and the resources they own
type App struct {
	Analysis     *usecase.AnalysisService
	Compare      *usecase.CompareService
	Sessions     *usecase.CompareSessions
	History      *usecase.HistoryService
	ShoppingList *usecase.ShoppingListService

	closers []func() error
}

// New builds every service from cfg
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	analysisCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, analysisCache.Close)
	log.Printf("Cache Type: %s (TTL %s)", cfg.Cache.Type, cfg.Cache.TTL)

	client := llm.NewClient(llm.ClientConfig{
		APIKey:            cfg.LLM.APIKey,
		BaseURL:           cfg.LLM.BaseURL,
		Model:             cfg.LLM.Model,
		Timeout:           cfg.LLM.Timeout,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
		MaxRetries:        cfg.LLM.MaxRetries,
	})
	// Enable debug mode in development environment
	debug := cfg.Server.Environment == "development"
	if debug {
		client.SetDebug(true)
		log.Printf("LLM client debug mode enabled")
	}
	log.Printf("LLM configured: %s model=%s", cfg.LLM.BaseURL, cfg.LLM.Model)

	store, err := storage.New(storage.Config{
		Path:         cfg.Storage.SQLitePath,
		HistoryLimit: cfg.Storage.HistoryLimit,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, store.Close)
	log.Printf("[STORE] SQLite at %s (history limit %d)", cfg.Storage.SQLitePath, cfg.Storage.HistoryLimit)

	var extractor domain.TextExtractor
	if cfg.OCR.Enabled {
		rek, err := ocr.NewRekognitionExtractor(ctx, ocr.Config{
			Region:        cfg.OCR.Region,
			MinConfidence: cfg.OCR.MinConfidence,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		extractor = rek
		log.Printf("[OCR] Rekognition enabled in %s", cfg.OCR.Region)
	}

	rules := usecase.DefaultRules()
	severity := usecase.NewKeywordSeverityClassifier(rules)
	scorer, err := usecase.NewConfidenceScorer(cfg.Analysis.ConfidenceMode, severity, time.Now().UnixNano())
	if err != nil {
		a.Close()
		return nil, err
	}
	enricher := usecase.NewEnricher(rules,
		usecase.WithSeverityClassifier(severity),
		usecase.WithConfidenceScorer(scorer),
	)

	a.Analysis = usecase.NewAnalysisService(analysisCache, client, store, extractor, enricher, usecase.AnalysisServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		EnableDebugLogging: debug,
	})
	a.Compare = usecase.NewCompareService(a.Analysis, usecase.NewComparator(severity))
	a.Sessions = usecase.NewCompareSessions(a.Compare, usecase.CompareSessionsConfig{
		MaxSessions: cfg.Compare.MaxSessions,
		TTL:         cfg.Compare.SessionTTL,
	})
	a.History = usecase.NewHistoryService(store)
	a.ShoppingList = usecase.NewShoppingListService(store.ShoppingList())

	return a, nil
}

// Close releases owned resources in reverse order of creation
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

type closableCache interface {
	domain.CacheRepository
	Close() error
}

func newCache(ctx context.Context, cfg config.CacheConfig) (closableCache, error) {
	switch cfg.Type {
	case "redis":
		rc, err := cache.NewRedisCache(cfg.RedisURL, "foodbuddy:")
		if err != nil {
			return nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, err
		}
		return rc, nil
	case "", "memory":
		return cache.NewMemoryCache(cache.DefaultCleanupInterval), nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}
