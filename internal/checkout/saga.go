package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/pricing"
)

type step string

const (
	stepSaveAddress  step = "save_address"
	stepSubmitOrder  step = "submit_order"
	stepMarkSpinUsed step = "mark_spin_used"
	stepConsumeQuiz  step = "consume_quiz"
	stepClearCart    step = "clear_cart"
)

// confirmation tracks the order-placement sequence step by step. The sequence
// is best-effort and non-transactional: completed steps are never rolled
// back, and the per-step results let a retried Confirm skip work already
// done instead of re-running the whole sequence.
type confirmation struct {
	key     string // idempotency key, stable across retries
	done    map[step]bool
	orderID string
}

func newConfirmation() *confirmation {
	return &confirmation{
		key:  uuid.NewString(),
		done: make(map[step]bool),
	}
}

// Result is the receipt handed back once a checkout confirms.
type Result struct {
	OrderID       string             `json:"orderId"`
	Totals        pricing.Totals     `json:"totals"`
	PaymentMethod string             `json:"paymentMethod"`
	Items         []pricing.CartLine `json:"items"`
}

// Confirm runs the confirmation sequence: save new address, submit order,
// mark spin reward used, consume quiz reward, clear the cart. A failure in
// the first two steps aborts the transition and leaves the session in
// OrderSummary with the reason surfaced; the trailing reward/cart steps are
// best-effort and only logged. Confirmation is terminal for the session.
func (s *Session) Confirm(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateConfirmation {
		return Result{}, ErrSessionComplete
	}
	if s.state != StateOrderSummary {
		return Result{}, s.wrongState(StateOrderSummary)
	}

	if s.saga == nil {
		s.saga = newConfirmation()
	}
	saga := s.saga

	if s.newAddress != nil && !saga.done[stepSaveAddress] {
		saved, err := s.svc.Addresses.SaveAddress(ctx, *s.newAddress)
		if err != nil {
			return Result{}, fmt.Errorf("save address: %w", err)
		}
		saga.done[stepSaveAddress] = true
		s.savedAddresses = append(s.savedAddresses, saved)
		s.useSavedID = saved.ID
		s.newAddress = nil
	}

	resolution := s.resolve()
	totals := s.quote()

	if !saga.done[stepSubmitOrder] {
		sub := models.OrderSubmission{
			Email:          s.email,
			Subtotal:       totals.Subtotal,
			Discount:       totals.Discount,
			Tip:            totals.Tip,
			ShippingCharge: totals.ShippingCharge,
			Total:          totals.Total,
			PaymentMethod:  s.paymentMethod,
			IdempotencyKey: saga.key,
		}
		for _, l := range s.lines {
			sub.Items = append(sub.Items, models.OrderItemSpec{
				BookID:   l.BookID,
				Quantity: l.Quantity,
				Price:    l.UnitPrice,
			})
		}
		// the code travels with the order only when the coupon actually won
		if resolution.Source == pricing.SourceCoupon {
			sub.CouponCode = s.couponCode
		}
		orderID, err := s.svc.Orders.SubmitOrder(ctx, sub)
		if err != nil {
			return Result{}, fmt.Errorf("submit order: %w", err)
		}
		saga.done[stepSubmitOrder] = true
		saga.orderID = orderID
	}

	// Trailing steps are fire-and-forget by design: an order exists now, so
	// a crash here can leave a reward un-consumed. Accepted consistency gap.
	if s.spinApplied && s.spin != nil && !saga.done[stepMarkSpinUsed] {
		if err := s.svc.Spins.MarkSpinRewardUsed(ctx, s.spin.ID); err != nil {
			s.log.Warn("mark spin reward used failed",
				zap.Int("reward_id", s.spin.ID), zap.Error(err))
		} else {
			saga.done[stepMarkSpinUsed] = true
		}
	}

	if resolution.Source == pricing.SourceQuiz && !saga.done[stepConsumeQuiz] {
		if err := s.svc.Quiz.ConsumeQuizReward(ctx, s.email); err != nil {
			s.log.Warn("consume quiz reward failed",
				zap.String("email", s.email), zap.Error(err))
		} else {
			saga.done[stepConsumeQuiz] = true
		}
	}

	if !saga.done[stepClearCart] {
		if err := s.svc.Cart.ClearCart(ctx, s.email); err != nil {
			s.log.Warn("clear cart failed", zap.String("email", s.email), zap.Error(err))
		} else {
			saga.done[stepClearCart] = true
		}
	}

	result := Result{
		OrderID:       saga.orderID,
		Totals:        totals,
		PaymentMethod: s.paymentMethod,
		Items:         s.lines,
	}

	s.state = StateConfirmation
	s.lines = nil
	if s.OnCartCleared != nil {
		s.OnCartCleared()
	}
	return result, nil
}
