package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// AnalysisClient defines the interface for the language model that turns an
// ingredient list into a RawAnalysis. Implementations must be safe for
// concurrent use.
type AnalysisClient interface {
	Analyze(ctx context.Context, ingredients string) (*RawAnalysis, error)
}

// TextExtractor defines the interface for reading ingredient text from an image
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// HistoryRepository defines the interface for saved analyses
type HistoryRepository interface {
	Save(ctx context.Context, item *HistoryItem) error
	List(ctx context.Context) ([]HistoryItem, error)
	Get(ctx context.Context, id string) (*HistoryItem, error)
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (*HistoryStats, error)
}

// ShoppingListRepository defines the interface for the shopping list
type ShoppingListRepository interface {
	Add(ctx context.Context, item string) error
	Remove(ctx context.Context, item string) error
	List(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}
