package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodbuddy/backend/internal/domain"
)

// HistoryService reads and exports saved analyses
type HistoryService struct {
	repo domain.HistoryRepository
}

// NewHistoryService creates a history service
func NewHistoryService(repo domain.HistoryRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

// List returns saved analyses, newest first
func (s *HistoryService) List(ctx context.Context) ([]domain.HistoryItem, error) {
	return s.repo.List(ctx)
}

// Get returns one saved analysis
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.HistoryItem, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repo.Get(ctx, id)
}

// Clear removes every saved analysis
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Stats summarizes saved analyses
func (s *HistoryService) Stats(ctx context.Context) (*domain.HistoryStats, error) {
	return s.repo.Stats(ctx)
}

// Export renders a saved analysis as a plain-text report
func (s *HistoryService) Export(ctx context.Context, id string) (string, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return FormatReport(&item.Result), nil
}

// FormatReport renders the intent, risks, trade-offs and summary of an
// analysis as plain text suitable for copying.
func FormatReport(a *domain.EnrichedAnalysis) string {
	var sb strings.Builder

	sb.WriteString("Intent:\n")
	sb.WriteString(a.Intent)
	sb.WriteString("\n\nRisks:\n")
	for _, r := range a.Risks {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", r.Title, r.Description))
	}
	sb.WriteString("\nTrade-offs:\n")
	for _, t := range a.Tradeoffs {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", t.Title, t.Description))
	}
	sb.WriteString("\nSummary:\n")
	sb.WriteString(a.Summary)
	sb.WriteString("\n")

	return sb.String()
}
