package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/foodbuddy/backend/internal/domain"
	"github.com/foodbuddy/backend/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Evaluator produces an enriched analysis for an ingredient list
type Evaluator interface {
	Evaluate(ctx context.Context, ingredients string, usage domain.UsageContext) (*domain.EnrichedAnalysis, error)
}

// CompareService analyzes two products concurrently and compares them
type CompareService struct {
	evaluator  Evaluator
	comparator *Comparator
}

// NewCompareService creates a compare service
func NewCompareService(evaluator Evaluator, comparator *Comparator) *CompareService {
	if comparator == nil {
		comparator = NewComparator(nil)
	}
	return &CompareService{evaluator: evaluator, comparator: comparator}
}

// Compare analyzes both products in parallel. If either analysis fails the
// whole comparison fails and the other request is cancelled.
func (s *CompareService) Compare(ctx context.Context, request *domain.CompareRequest) (*domain.CompareResult, error) {
	if request == nil || strings.TrimSpace(request.ProductA) == "" || strings.TrimSpace(request.ProductB) == "" {
		return nil, fmt.Errorf("%w: both products are required", domain.ErrInvalidRequest)
	}
	usage := domain.ParseUsageContext(request.Context)

	var a, b *domain.EnrichedAnalysis
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = s.evaluator.Evaluate(gctx, request.ProductA, usage)
		if err != nil {
			return fmt.Errorf("product A: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		b, err = s.evaluator.Evaluate(gctx, request.ProductB, usage)
		if err != nil {
			return fmt.Errorf("product B: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Printf("[COMPARE] Comparison failed: %v", err)
		metrics.RecordCompare("error")
		return nil, err
	}

	if a.IsInvalid() || b.IsInvalid() {
		metrics.RecordCompare("invalid_input")
		return nil, fmt.Errorf("%w: %s is not a food ingredient list", domain.ErrInvalidRequest, invalidSide(a))
	}

	metrics.RecordCompare("ok")
	return &domain.CompareResult{
		ProductA:   *a,
		ProductB:   *b,
		Comparison: s.comparator.Compare(a, b),
	}, nil
}

func invalidSide(a *domain.EnrichedAnalysis) string {
	if a.IsInvalid() {
		return domain.ProductA
	}
	return domain.ProductB
}
