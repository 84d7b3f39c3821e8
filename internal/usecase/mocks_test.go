package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/foodbuddy/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu        sync.Mutex
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled bool
	setCalled bool
	lastTTL   time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled = true
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// MockAnalysisClient is a mock implementation of domain.AnalysisClient.
// When analyze is set it decides the response per input.
type MockAnalysisClient struct {
	mu      sync.Mutex
	result  *domain.RawAnalysis
	err     error
	analyze func(ctx context.Context, ingredients string) (*domain.RawAnalysis, error)
	calls   []string
}

func NewMockAnalysisClient() *MockAnalysisClient {
	return &MockAnalysisClient{}
}

func (m *MockAnalysisClient) Analyze(ctx context.Context, ingredients string) (*domain.RawAnalysis, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ingredients)
	analyze := m.analyze
	m.mu.Unlock()

	if analyze != nil {
		return analyze(ctx, ingredients)
	}
	if m.err != nil {
		return nil, m.err
	}
	out := *m.result
	return &out, nil
}

func (m *MockAnalysisClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// MockHistoryRepository is a mock implementation of domain.HistoryRepository
type MockHistoryRepository struct {
	items   []domain.HistoryItem
	saveErr error
	stats   *domain.HistoryStats
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{}
}

func (m *MockHistoryRepository) Save(ctx context.Context, item *domain.HistoryItem) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items = append([]domain.HistoryItem{*item}, m.items...)
	return nil
}

func (m *MockHistoryRepository) List(ctx context.Context) ([]domain.HistoryItem, error) {
	return m.items, nil
}

func (m *MockHistoryRepository) Get(ctx context.Context, id string) (*domain.HistoryItem, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			item := m.items[i]
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockHistoryRepository) Clear(ctx context.Context) error {
	m.items = nil
	return nil
}

func (m *MockHistoryRepository) Stats(ctx context.Context) (*domain.HistoryStats, error) {
	if m.stats != nil {
		return m.stats, nil
	}
	return &domain.HistoryStats{Count: len(m.items)}, nil
}

// MockShoppingListRepository is a mock implementation of domain.ShoppingListRepository
type MockShoppingListRepository struct {
	items []string
}

func (m *MockShoppingListRepository) Add(ctx context.Context, item string) error {
	m.items = append(m.items, item)
	return nil
}

func (m *MockShoppingListRepository) Remove(ctx context.Context, item string) error {
	for i, v := range m.items {
		if v == item {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockShoppingListRepository) List(ctx context.Context) ([]string, error) {
	out := make([]string, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MockShoppingListRepository) Clear(ctx context.Context) error {
	m.items = nil
	return nil
}

// MockTextExtractor is a mock implementation of domain.TextExtractor
type MockTextExtractor struct {
	text string
	err  error
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func sampleRawAnalysis() *domain.RawAnalysis {
	return &domain.RawAnalysis{
		Intent: "Sweetened breakfast cereal",
		Risks: []domain.Risk{
			{Title: "Added Sugar", Description: "High intake is linked to obesity"},
		},
		Tradeoffs:  []domain.Tradeoff{{Title: "Convenience", Description: "Quick but not filling"}},
		Summary:    "Fine occasionally.",
		Disclaimer: "Not medical advice.",
	}
}

func invalidRawAnalysis() *domain.RawAnalysis {
	return &domain.RawAnalysis{
		Intent:  domain.InvalidInputIntent,
		Risks:   []domain.Risk{},
		Summary: "Not an ingredient list.",
	}
}
