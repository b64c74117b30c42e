package service

import (
	"context"
	"fmt"

	"github.com/bookverse/bookverse-api/internal/models"
)

type AddressStore interface {
	ListByEmail(ctx context.Context, email string) ([]models.Address, error)
	Create(ctx context.Context, a *models.Address) error
}

// AddressService fronts the saved-address book for checkout sessions.
type AddressService struct {
	repo AddressStore
}

func NewAddressService(repo AddressStore) *AddressService {
	return &AddressService{repo: repo}
}

func (s *AddressService) ListAddresses(ctx context.Context, email string) ([]models.Address, error) {
	return s.repo.ListByEmail(ctx, email)
}

func (s *AddressService) SaveAddress(ctx context.Context, addr models.Address) (models.Address, error) {
	if err := addr.Validate(); err != nil {
		return models.Address{}, err
	}
	if err := s.repo.Create(ctx, &addr); err != nil {
		return models.Address{}, fmt.Errorf("save address: %w", err)
	}
	return addr, nil
}
