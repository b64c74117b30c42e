package service

import (
	"context"
	"fmt"

	"github.com/bookverse/bookverse-api/internal/pricing"
)

type CartStore interface {
	Lines(ctx context.Context, email string) ([]pricing.CartLine, error)
	Clear(ctx context.Context, email string) error
}

// CartService is the thin checkout-facing view of the cart.
type CartService struct {
	repo CartStore
}

func NewCartService(repo CartStore) *CartService {
	return &CartService{repo: repo}
}

func (s *CartService) Lines(ctx context.Context, email string) ([]pricing.CartLine, error) {
	return s.repo.Lines(ctx, email)
}

func (s *CartService) ClearCart(ctx context.Context, email string) error {
	if err := s.repo.Clear(ctx, email); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
