package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/foodbuddy/backend/internal/domain"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CompareSessionsConfig holds configuration for compare sessions
type CompareSessionsConfig struct {
	MaxSessions int
	TTL         time.Duration
}

type compareSession struct {
	mu   sync.Mutex
	flow *CompareFlow
	data domain.CompareSession
}

// snapshot copies the session state; callers hold mu
func (cs *compareSession) snapshot() *domain.CompareSession {
	out := cs.data
	out.State = cs.flow.State()
	return &out
}

// sessionError is the message kept on a session after a failed submit.
// Only request problems are described; anything else is reported generically.
func sessionError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidTransition):
		return err.Error()
	default:
		return domain.MsgAnalysisFailed
	}
}

// CompareSessions drives server-side comparison flows. Idle sessions expire
// after the configured TTL and the least recently used are evicted first.
type CompareSessions struct {
	service  *CompareService
	sessions *expirable.LRU[string, *compareSession]
	newID    func() string
}

// NewCompareSessions creates a session store backed by service
func NewCompareSessions(service *CompareService, config CompareSessionsConfig) *CompareSessions {
	if config.MaxSessions <= 0 {
		config.MaxSessions = 1000
	}
	if config.TTL <= 0 {
		config.TTL = 30 * time.Minute
	}
	return &CompareSessions{
		service:  service,
		sessions: expirable.NewLRU[string, *compareSession](config.MaxSessions, nil, config.TTL),
		newID:    uuid.NewString,
	}
}

// Start enters compare mode holding the first product
func (m *CompareSessions) Start(ingredients, usageContext string) (*domain.CompareSession, error) {
	if strings.TrimSpace(ingredients) == "" {
		return nil, fmt.Errorf("%w: ingredients text is required", domain.ErrInvalidRequest)
	}

	cs := &compareSession{
		flow: NewCompareFlow(),
		data: domain.CompareSession{
			ID:           m.newID(),
			Context:      domain.ParseUsageContext(usageContext),
			IngredientsA: strings.TrimSpace(ingredients),
		},
	}
	if err := cs.flow.Request(); err != nil {
		return nil, err
	}
	m.sessions.Add(cs.data.ID, cs)

	return cs.snapshot(), nil
}

// Get returns the current state of a session
func (m *CompareSessions) Get(id string) (*domain.CompareSession, error) {
	cs, ok := m.sessions.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.snapshot(), nil
}

// Submit supplies the second product and runs the comparison. On failure
// the session returns to idle with the error recorded and the error is
// returned alongside the session.
func (m *CompareSessions) Submit(ctx context.Context, id, ingredients string) (*domain.CompareSession, error) {
	if strings.TrimSpace(ingredients) == "" {
		return nil, fmt.Errorf("%w: ingredients text is required", domain.ErrInvalidRequest)
	}
	cs, ok := m.sessions.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}

	cs.mu.Lock()
	if err := cs.flow.Submit(); err != nil {
		snap := cs.snapshot()
		cs.mu.Unlock()
		return snap, err
	}
	cs.data.IngredientsB = strings.TrimSpace(ingredients)
	request := &domain.CompareRequest{
		ProductA: cs.data.IngredientsA,
		ProductB: cs.data.IngredientsB,
		Context:  string(cs.data.Context),
	}
	cs.mu.Unlock()

	result, err := m.service.Compare(ctx, request)

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if err != nil {
		_ = cs.flow.Fail(err)
		cs.data.Result = nil
		cs.data.Error = sessionError(err)
		return cs.snapshot(), err
	}
	if rErr := cs.flow.Resolve(); rErr != nil {
		return cs.snapshot(), rErr
	}
	cs.data.Result = result
	cs.data.Error = ""
	return cs.snapshot(), nil
}

// Exit leaves compare mode and forgets the session
func (m *CompareSessions) Exit(id string) (*domain.CompareSession, error) {
	cs, ok := m.sessions.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if err := cs.flow.Exit(); err != nil {
		return cs.snapshot(), err
	}
	m.sessions.Remove(id)
	return cs.snapshot(), nil
}

// Len returns the number of live sessions
func (m *CompareSessions) Len() int {
	return m.sessions.Len()
}
