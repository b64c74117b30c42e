package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookverse/bookverse-api/internal/checkout"
	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/pricing"
)

func readySession(t *testing.T, f *fixture, cart []pricing.CartLine) *checkout.Session {
	t.Helper()
	s := f.session(cart)
	require.NoError(t, s.EnterAddress(newAddress()))
	require.NoError(t, s.Next())
	return s
}

func TestConfirm_HappyPath(t *testing.T) {
	f := newFixture()
	s := readySession(t, f, lines(500))
	s.SetTip("10")

	var broadcast bool
	s.OnCartCleared = func() { broadcast = true }

	res, err := s.Confirm(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", res.OrderID)
	assert.Equal(t, 510.0, res.Totals.Total)
	assert.Equal(t, checkout.StateConfirmation, s.State())
	assert.Equal(t, 1, f.addresses.saves)
	assert.Equal(t, []string{"reader@example.com"}, f.cart.cleared)
	assert.True(t, broadcast)

	require.Len(t, f.orders.submitted, 1)
	sub := f.orders.submitted[0]
	assert.Equal(t, "reader@example.com", sub.Email)
	assert.Equal(t, models.PaymentCashOnDelivery, sub.PaymentMethod)
	assert.NotEmpty(t, sub.IdempotencyKey)
	require.Len(t, sub.Items, 1)
	assert.Equal(t, 1, sub.Items[0].BookID)
}

func TestConfirm_IsTerminal(t *testing.T) {
	f := newFixture()
	s := readySession(t, f, lines(500))

	_, err := s.Confirm(context.Background())
	require.NoError(t, err)

	_, err = s.Confirm(context.Background())
	assert.ErrorIs(t, err, checkout.ErrSessionComplete)
	assert.ErrorIs(t, s.Back(), checkout.ErrSessionComplete)
	assert.Len(t, f.orders.submitted, 1)
}

func TestConfirm_AddressSaveFailureAborts(t *testing.T) {
	f := newFixture()
	f.addresses.saveErr = errors.New("db down")
	s := readySession(t, f, lines(500))

	_, err := s.Confirm(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save address")
	assert.Equal(t, checkout.StateOrderSummary, s.State())
	assert.Empty(t, f.orders.submitted)
}

func TestConfirm_OrderFailureKeepsSavedAddress(t *testing.T) {
	f := newFixture()
	f.orders.err = errors.New("orders unavailable")
	s := readySession(t, f, lines(500))

	_, err := s.Confirm(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders unavailable")
	assert.Equal(t, checkout.StateOrderSummary, s.State())

	// the address save is not rolled back; a manual retry skips it
	assert.Equal(t, 1, f.addresses.saves)
	f.orders.err = nil
	_, err = s.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.addresses.saves)
	assert.Len(t, f.orders.submitted, 1)
}

func TestConfirm_NewAddressAfterOrderFailureIsSaved(t *testing.T) {
	f := newFixture()
	f.orders.err = errors.New("orders unavailable")
	s := readySession(t, f, lines(500))

	_, err := s.Confirm(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, f.addresses.saves)

	// back out, stage a different address, retry
	require.NoError(t, s.Back())
	second := newAddress()
	second.Street = "Elsewhere Lane"
	require.NoError(t, s.EnterAddress(second))
	require.NoError(t, s.Next())

	f.orders.err = nil
	_, err = s.Confirm(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, f.addresses.saves)
	require.Len(t, f.addresses.saved, 2)
	assert.Equal(t, "Elsewhere Lane", f.addresses.saved[1].Street)
}

func TestConfirm_IdempotencyKeyStableAcrossRetries(t *testing.T) {
	f := newFixture()
	f.orders.err = errors.New("transient")
	s := readySession(t, f, lines(500))

	_, err := s.Confirm(context.Background())
	require.Error(t, err)

	f.orders.err = nil
	res1, err := s.Confirm(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, res1.OrderID)
	assert.NotEmpty(t, f.orders.submitted[0].IdempotencyKey)
}

func TestConfirm_SpinMarkedUsed(t *testing.T) {
	f := newFixture()
	f.spins.reward = &pricing.SpinReward{ID: 7, RewardValue: "free"}
	s := readySession(t, f, lines(500))
	require.NoError(t, s.ApplySpin())

	res, err := s.Confirm(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 450.0, res.Totals.Total)
	assert.Equal(t, []int{7}, f.spins.used)
	assert.Zero(t, f.quiz.consumed)
	assert.Empty(t, f.orders.submitted[0].CouponCode)
}

func TestConfirm_QuizConsumed(t *testing.T) {
	f := newFixture()
	f.quiz.reward = pricing.QuizReward{HasReward: true, Discount: 20}
	s := readySession(t, f, lines(200))

	res, err := s.Confirm(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 180.0, res.Totals.Total)
	assert.Equal(t, 1, f.quiz.consumed)
}

func TestConfirm_CouponCodeTravelsOnlyWhenCouponWon(t *testing.T) {
	f := newFixture()
	f.coupons.result = models.CouponApplyResult{Valid: true, DiscountAmount: 40}
	s := readySession(t, f, lines(500))

	_, err := s.ApplyCoupon(context.Background(), "GOOD40")
	require.NoError(t, err)

	_, err = s.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GOOD40", f.orders.submitted[0].CouponCode)
	assert.Equal(t, 40.0, f.orders.submitted[0].Discount)
}

func TestConfirm_TrailingStepFailureDoesNotAbort(t *testing.T) {
	f := newFixture()
	f.spins.reward = &pricing.SpinReward{ID: 7, RewardValue: "20%"}
	f.spins.markErr = errors.New("spin service down")
	f.cart.err = errors.New("cart service down")
	s := readySession(t, f, lines(500))
	require.NoError(t, s.ApplySpin())

	res, err := s.Confirm(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, res.OrderID)
	assert.Equal(t, checkout.StateConfirmation, s.State())
}

func TestConfirm_RequiresOrderSummary(t *testing.T) {
	f := newFixture()
	s := f.session(lines(500))

	_, err := s.Confirm(context.Background())
	require.Error(t, err)
	assert.Equal(t, checkout.StateAddressSelection, s.State())
}
