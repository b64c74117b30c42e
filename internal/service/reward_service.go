package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookverse/bookverse-api/internal/cache"
	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/pricing"
)

type RewardRepo interface {
	GetQuizReward(ctx context.Context, email string) (pricing.QuizReward, error)
	GrantQuizReward(ctx context.Context, email string, discount float64) error
	ConsumeQuizReward(ctx context.Context, email string) error
	ListActiveSaleEvents(ctx context.Context, now time.Time) ([]models.SaleEvent, error)
	CreateSaleEvent(ctx context.Context, e *models.SaleEvent) error
	UpdateSaleEvent(ctx context.Context, e *models.SaleEvent) error
	DeleteSaleEvent(ctx context.Context, id int) error
	GetUnusedSpinReward(ctx context.Context, email string) (*models.SpinReward, error)
	MarkSpinRewardUsed(ctx context.Context, id int) error
	CreateSpinReward(ctx context.Context, s *models.SpinReward) error
}

// ErrSpinPending rejects a spin while an earlier reward is still unused.
var ErrSpinPending = errors.New("an unused spin reward is already pending")

// RewardService fronts the quiz, sale and spin discount sources. Active
// sales go through a short-TTL in-process cache since they are store-wide.
type RewardService struct {
	repo  RewardRepo
	sales *cache.SaleCache
}

func NewRewardService(repo RewardRepo, sales *cache.SaleCache) *RewardService {
	return &RewardService{repo: repo, sales: sales}
}

func (s *RewardService) GetQuizReward(ctx context.Context, email string) (pricing.QuizReward, error) {
	return s.repo.GetQuizReward(ctx, email)
}

func (s *RewardService) GrantQuizReward(ctx context.Context, email string, discount float64) error {
	if err := s.repo.GrantQuizReward(ctx, email, discount); err != nil {
		return fmt.Errorf("grant quiz reward: %w", err)
	}
	return nil
}

func (s *RewardService) ConsumeQuizReward(ctx context.Context, email string) error {
	if err := s.repo.ConsumeQuizReward(ctx, email); err != nil {
		return fmt.Errorf("consume quiz reward: %w", err)
	}
	return nil
}

func (s *RewardService) GetActiveSaleEvents(ctx context.Context) ([]pricing.SaleEvent, error) {
	if cached, ok := s.sales.Get(); ok {
		return cached, nil
	}
	events, err := s.repo.ListActiveSaleEvents(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("list sale events: %w", err)
	}
	active := make([]pricing.SaleEvent, 0, len(events))
	for _, e := range events {
		active = append(active, pricing.SaleEvent{
			Title:              e.Title,
			DiscountPercentage: e.DiscountPercentage,
		})
	}
	s.sales.Set(active)
	return active, nil
}

// CreateSaleEvent invalidates the cache so the new sale shows up on the
// next quote instead of after the TTL.
func (s *RewardService) CreateSaleEvent(ctx context.Context, e *models.SaleEvent) error {
	if err := s.repo.CreateSaleEvent(ctx, e); err != nil {
		return fmt.Errorf("create sale event: %w", err)
	}
	s.sales.Invalidate()
	return nil
}

func (s *RewardService) UpdateSaleEvent(ctx context.Context, e *models.SaleEvent) error {
	if err := s.repo.UpdateSaleEvent(ctx, e); err != nil {
		return fmt.Errorf("update sale event: %w", err)
	}
	s.sales.Invalidate()
	return nil
}

func (s *RewardService) DeleteSaleEvent(ctx context.Context, id int) error {
	if err := s.repo.DeleteSaleEvent(ctx, id); err != nil {
		return fmt.Errorf("delete sale event: %w", err)
	}
	s.sales.Invalidate()
	return nil
}

// SpinWheel records a fresh spin reward unless the customer still has an
// unused one pending.
func (s *RewardService) SpinWheel(ctx context.Context, email, rewardType, rewardValue string) (*models.SpinReward, error) {
	pending, err := s.repo.GetUnusedSpinReward(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load spin reward: %w", err)
	}
	if pending != nil {
		return nil, ErrSpinPending
	}
	reward := &models.SpinReward{
		Email:       email,
		RewardType:  rewardType,
		RewardValue: rewardValue,
	}
	if err := s.repo.CreateSpinReward(ctx, reward); err != nil {
		return nil, fmt.Errorf("create spin reward: %w", err)
	}
	return reward, nil
}

func (s *RewardService) GetUnusedSpinReward(ctx context.Context, email string) (*pricing.SpinReward, error) {
	reward, err := s.repo.GetUnusedSpinReward(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load spin reward: %w", err)
	}
	if reward == nil {
		return nil, nil
	}
	return &pricing.SpinReward{
		ID:          reward.ID,
		RewardType:  reward.RewardType,
		RewardValue: reward.RewardValue,
		Used:        reward.Used,
	}, nil
}

func (s *RewardService) MarkSpinRewardUsed(ctx context.Context, rewardID int) error {
	if err := s.repo.MarkSpinRewardUsed(ctx, rewardID); err != nil {
		return fmt.Errorf("mark spin reward used: %w", err)
	}
	return nil
}
