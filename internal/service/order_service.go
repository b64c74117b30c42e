package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookverse/bookverse-api/internal/models"
)

var (
	ErrEmptyOrder         = errors.New("order has no items")
	ErrMissingEmail       = errors.New("customer email required")
	ErrBadPaymentMethod   = errors.New("unknown payment method")
	ErrInconsistentTotals = errors.New("order totals do not add up")
)

type OrderRepo interface {
	Create(ctx context.Context, sub models.OrderSubmission, number string) (string, error)
}

type OrderService struct {
	repo OrderRepo
	log  *zap.Logger
}

func NewOrderService(repo OrderRepo, log *zap.Logger) *OrderService {
	return &OrderService{repo: repo, log: log}
}

// SubmitOrder validates and persists a confirmed checkout, returning the
// order number. Submissions carrying an idempotency key dedupe on it.
func (s *OrderService) SubmitOrder(ctx context.Context, sub models.OrderSubmission) (string, error) {
	if strings.TrimSpace(sub.Email) == "" {
		return "", ErrMissingEmail
	}
	if !models.ValidPaymentMethod(sub.PaymentMethod) {
		return "", ErrBadPaymentMethod
	}
	// the empty-cart checkout is allowed by the flow, so an empty item list
	// is rejected only when the subtotal claims otherwise
	if len(sub.Items) == 0 && sub.Subtotal != 0 {
		return "", ErrEmptyOrder
	}
	want := sub.Subtotal - sub.Discount + sub.Tip + sub.ShippingCharge
	if diff := sub.Total - want; diff > 0.01 || diff < -0.01 {
		return "", ErrInconsistentTotals
	}

	number := "BV-" + strings.ToUpper(uuid.NewString()[:8])
	placed, err := s.repo.Create(ctx, sub, number)
	if err != nil {
		return "", fmt.Errorf("persist order: %w", err)
	}
	s.log.Info("order placed",
		zap.String("number", placed),
		zap.String("email", sub.Email),
		zap.Float64("total", sub.Total))
	return placed, nil
}
