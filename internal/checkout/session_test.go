package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookverse/bookverse-api/internal/checkout"
	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/pricing"
)

// --- fakes ---

type fakeQuiz struct {
	reward   pricing.QuizReward
	err      error
	consumed int
}

func (f *fakeQuiz) GetQuizReward(ctx context.Context, email string) (pricing.QuizReward, error) {
	return f.reward, f.err
}

func (f *fakeQuiz) ConsumeQuizReward(ctx context.Context, email string) error {
	f.consumed++
	return nil
}

type fakeSales struct {
	events []pricing.SaleEvent
	err    error
}

func (f *fakeSales) GetActiveSaleEvents(ctx context.Context) ([]pricing.SaleEvent, error) {
	return f.events, f.err
}

type fakeCoupons struct {
	eligible []models.Coupon
	result   models.CouponApplyResult
	err      error
	applied  []models.CouponApplyRequest
}

func (f *fakeCoupons) GetEligibleCoupons(ctx context.Context, email string) ([]models.Coupon, error) {
	return f.eligible, nil
}

func (f *fakeCoupons) ApplyCoupon(ctx context.Context, req models.CouponApplyRequest) (models.CouponApplyResult, error) {
	f.applied = append(f.applied, req)
	return f.result, f.err
}

type fakeSpins struct {
	reward  *pricing.SpinReward
	used    []int
	markErr error
}

func (f *fakeSpins) GetUnusedSpinReward(ctx context.Context, email string) (*pricing.SpinReward, error) {
	return f.reward, nil
}

func (f *fakeSpins) MarkSpinRewardUsed(ctx context.Context, rewardID int) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.used = append(f.used, rewardID)
	return nil
}

type fakeAddresses struct {
	saved   []models.Address
	saveErr error
	nextID  int
	saves   int
}

func (f *fakeAddresses) ListAddresses(ctx context.Context, email string) ([]models.Address, error) {
	return f.saved, nil
}

func (f *fakeAddresses) SaveAddress(ctx context.Context, addr models.Address) (models.Address, error) {
	f.saves++
	if f.saveErr != nil {
		return models.Address{}, f.saveErr
	}
	f.nextID++
	addr.ID = f.nextID
	f.saved = append(f.saved, addr)
	return addr, nil
}

type fakeOrders struct {
	submitted []models.OrderSubmission
	err       error
}

func (f *fakeOrders) SubmitOrder(ctx context.Context, sub models.OrderSubmission) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.submitted = append(f.submitted, sub)
	return "ORD-1", nil
}

type fakeCart struct {
	cleared []string
	err     error
}

func (f *fakeCart) ClearCart(ctx context.Context, email string) error {
	if f.err != nil {
		return f.err
	}
	f.cleared = append(f.cleared, email)
	return nil
}

type fixture struct {
	quiz      *fakeQuiz
	sales     *fakeSales
	coupons   *fakeCoupons
	spins     *fakeSpins
	addresses *fakeAddresses
	orders    *fakeOrders
	cart      *fakeCart
}

func newFixture() *fixture {
	return &fixture{
		quiz:      &fakeQuiz{},
		sales:     &fakeSales{},
		coupons:   &fakeCoupons{},
		spins:     &fakeSpins{},
		addresses: &fakeAddresses{},
		orders:    &fakeOrders{},
		cart:      &fakeCart{},
	}
}

func (f *fixture) collaborators() checkout.Collaborators {
	return checkout.Collaborators{
		Quiz:      f.quiz,
		Sales:     f.sales,
		Coupons:   f.coupons,
		Spins:     f.spins,
		Addresses: f.addresses,
		Orders:    f.orders,
		Cart:      f.cart,
	}
}

func (f *fixture) session(lines []pricing.CartLine) *checkout.Session {
	return checkout.NewSession(context.Background(), zap.NewNop(), f.collaborators(), "reader@example.com", lines)
}

func lines(subtotal float64) []pricing.CartLine {
	return []pricing.CartLine{{BookID: 1, Title: "Gitanjali", UnitPrice: subtotal, Quantity: 1}}
}

func newAddress() models.Address {
	return models.Address{
		FullName: "A", Street: "B", City: "C", State: "D",
		Zip: "1", Country: "E", Phone: "9",
	}
}

// --- tests ---

func TestSession_SourceFetchFailureDegradesToAbsent(t *testing.T) {
	f := newFixture()
	f.quiz.err = errors.New("quiz service down")
	f.sales.err = errors.New("sale service down")

	s := f.session(lines(500))

	got := s.Discount()
	assert.Equal(t, pricing.SourceNone, got.Source)
	assert.Equal(t, 0.0, got.Amount)
}

func TestSession_QuizBlocksCoupon(t *testing.T) {
	f := newFixture()
	f.quiz.reward = pricing.QuizReward{HasReward: true, Discount: 20}

	s := f.session(lines(200))

	_, err := s.ApplyCoupon(context.Background(), "WELCOME10")
	assert.ErrorIs(t, err, checkout.ErrCouponWithQuiz)
	assert.Empty(t, f.coupons.applied)
	assert.Equal(t, 20.0, s.Discount().Amount)
}

func TestSession_QuizBelowMinimumAllowsCoupon(t *testing.T) {
	f := newFixture()
	f.quiz.reward = pricing.QuizReward{HasReward: true, Discount: 20}
	f.coupons.result = models.CouponApplyResult{Valid: true, DiscountAmount: 12}

	s := f.session(lines(120))

	res, err := s.ApplyCoupon(context.Background(), "WELCOME10")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, pricing.SourceCoupon, s.Discount().Source)
}

func TestSession_SaleBlocksCouponWithMessage(t *testing.T) {
	f := newFixture()
	f.sales.events = []pricing.SaleEvent{{Title: "Festive", DiscountPercentage: 30}}

	s := f.session(lines(1000))

	_, err := s.ApplyCoupon(context.Background(), "WELCOME10")
	assert.ErrorIs(t, err, checkout.ErrCouponWithSale)
	assert.Equal(t, 300.0, s.Discount().Amount)
}

func TestSession_CouponRejectionClearsPriorDiscount(t *testing.T) {
	f := newFixture()
	f.coupons.result = models.CouponApplyResult{Valid: true, DiscountAmount: 40}

	s := f.session(lines(500))
	_, err := s.ApplyCoupon(context.Background(), "GOOD")
	require.NoError(t, err)
	assert.Equal(t, 40.0, s.Discount().Amount)

	f.coupons.result = models.CouponApplyResult{Valid: false, Message: models.CouponExpired}
	res, err := s.ApplyCoupon(context.Background(), "STALE")
	require.NoError(t, err)
	assert.Equal(t, models.CouponExpired, res.Message)
	assert.Equal(t, 0.0, s.Discount().Amount)
}

func TestSession_SpinOverridesCouponAndBlocksReapply(t *testing.T) {
	f := newFixture()
	f.coupons.result = models.CouponApplyResult{Valid: true, DiscountAmount: 40}
	f.spins.reward = &pricing.SpinReward{ID: 7, RewardValue: "20%"}

	s := f.session(lines(500))
	_, err := s.ApplyCoupon(context.Background(), "GOOD")
	require.NoError(t, err)

	require.NoError(t, s.ApplySpin())
	got := s.Discount()
	assert.Equal(t, pricing.SourceSpin, got.Source)
	assert.Equal(t, 100.0, got.Amount)

	_, err = s.ApplyCoupon(context.Background(), "GOOD")
	assert.ErrorIs(t, err, checkout.ErrCouponWithSpin)
}

func TestSession_ApplySpinWithoutReward(t *testing.T) {
	f := newFixture()
	s := f.session(lines(500))

	assert.ErrorIs(t, s.ApplySpin(), checkout.ErrNoSpinReward)
}

func TestSession_AddressGuards(t *testing.T) {
	f := newFixture()
	f.addresses.saved = []models.Address{func() models.Address {
		a := newAddress()
		a.ID = 3
		return a
	}()}

	s := f.session(lines(500))

	// nothing staged yet
	assert.ErrorIs(t, s.Next(), checkout.ErrNoAddress)

	// missing field
	bad := newAddress()
	bad.Phone = "  "
	assert.EqualError(t, s.EnterAddress(bad), "missing phone")

	// duplicate of the saved address, differing only in case and spacing
	dup := newAddress()
	dup.FullName = "  a "
	assert.ErrorIs(t, s.EnterAddress(dup), checkout.ErrDuplicateAddress)

	// one differing field is not a duplicate
	fresh := newAddress()
	fresh.Zip = "2"
	require.NoError(t, s.EnterAddress(fresh))
	require.NoError(t, s.Next())
	assert.Equal(t, checkout.StateOrderSummary, s.State())
}

func TestSession_SelectSavedAddress(t *testing.T) {
	f := newFixture()
	a := newAddress()
	a.ID = 3
	f.addresses.saved = []models.Address{a}

	s := f.session(lines(500))

	assert.ErrorIs(t, s.SelectAddress(99), checkout.ErrUnknownAddress)
	require.NoError(t, s.SelectAddress(3))
	require.NoError(t, s.Next())
}

func TestSession_BackReturnsToAddressSelection(t *testing.T) {
	f := newFixture()
	s := f.session(lines(500))

	require.NoError(t, s.EnterAddress(newAddress()))
	require.NoError(t, s.Next())
	require.NoError(t, s.Back())
	assert.Equal(t, checkout.StateAddressSelection, s.State())
}

func TestSession_TipParsing(t *testing.T) {
	f := newFixture()
	s := f.session(lines(80))

	s.SetTip("10")
	assert.Equal(t, 140.0, s.Quote().Total)

	s.SetTip("not a number")
	assert.Equal(t, 0.0, s.Quote().Tip)

	s.SetTip("-3")
	assert.Equal(t, 0.0, s.Quote().Tip)
}

func TestSession_EmptyCartQuote(t *testing.T) {
	f := newFixture()
	s := f.session(nil)

	s.SetTip("20")
	got := s.Quote()
	assert.Equal(t, 0.0, got.Subtotal)
	assert.Equal(t, 50.0, got.ShippingCharge)
	assert.Equal(t, 70.0, got.Total)
}

func TestSession_InvalidPaymentMethod(t *testing.T) {
	f := newFixture()
	s := f.session(lines(500))

	assert.ErrorIs(t, s.SetPaymentMethod("Barter"), checkout.ErrInvalidPayment)
	assert.NoError(t, s.SetPaymentMethod(models.PaymentUPI))
}
