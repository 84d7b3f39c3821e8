package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodbuddy/backend/internal/domain"
)

// MaxShoppingItemLength caps a single shopping list entry
const MaxShoppingItemLength = 200

// ShoppingListService manages the shopping list built from accepted alternatives
type ShoppingListService struct {
	repo domain.ShoppingListRepository
}

// NewShoppingListService creates a shopping list service
func NewShoppingListService(repo domain.ShoppingListRepository) *ShoppingListService {
	return &ShoppingListService{repo: repo}
}

// Add appends an item
func (s *ShoppingListService) Add(ctx context.Context, item string) error {
	item, err := normalizeShoppingItem(item)
	if err != nil {
		return err
	}
	return s.repo.Add(ctx, item)
}

// Remove deletes the first entry equal to item
func (s *ShoppingListService) Remove(ctx context.Context, item string) error {
	item, err := normalizeShoppingItem(item)
	if err != nil {
		return err
	}
	return s.repo.Remove(ctx, item)
}

// List returns every entry in insertion order
func (s *ShoppingListService) List(ctx context.Context) ([]string, error) {
	return s.repo.List(ctx)
}

// Clear empties the list
func (s *ShoppingListService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

func normalizeShoppingItem(item string) (string, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return "", fmt.Errorf("%w: item is required", domain.ErrInvalidRequest)
	}
	if len(item) > MaxShoppingItemLength {
		return "", fmt.Errorf("%w: item longer than %d characters", domain.ErrInvalidRequest, MaxShoppingItemLength)
	}
	return item, nil
}
