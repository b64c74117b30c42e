package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/pricing"
)

// State is the checkout flow position. The flow is linear; the only cycle is
// the explicit Back edge from OrderSummary to AddressSelection.
type State string

const (
	StateAddressSelection State = "address_selection"
	StateOrderSummary     State = "order_summary"
	StateConfirmation     State = "confirmation"
)

var (
	ErrCouponWithQuiz   = errors.New("quiz reward active, coupon disabled")
	ErrCouponWithSale   = errors.New("sale is active, coupon disabled")
	ErrCouponWithSpin   = errors.New("coupons cannot be used with spin reward")
	ErrDuplicateAddress = errors.New("this address already exists")
	ErrNoAddress        = errors.New("no address selected")
	ErrUnknownAddress   = errors.New("address not found")
	ErrNoSpinReward     = errors.New("no spin reward available")
	ErrInvalidPayment   = errors.New("invalid payment method")
	ErrSessionComplete  = errors.New("checkout already confirmed")
)

// Session is the in-memory snapshot of one checkout: cart lines, saved
// addresses and discount sources are captured at entry and stay immutable for
// the session's lifetime. Nothing here is shared across sessions.
type Session struct {
	mu  sync.Mutex
	log *zap.Logger
	svc Collaborators

	email    string
	lines    []pricing.CartLine
	subtotal float64
	state    State

	savedAddresses []models.Address
	useSavedID     int // >0 when an existing address was selected
	newAddress     *models.Address

	quiz        *pricing.QuizReward
	sales       []pricing.SaleEvent
	spin        *pricing.SpinReward
	spinApplied bool

	eligibleCoupons []models.Coupon
	couponCode      string
	couponDiscount  float64

	tip           float64
	paymentMethod string

	// OnCartCleared, when set, is invoked after a confirmed order clears the
	// cart so callers can broadcast the change.
	OnCartCleared func()

	saga *confirmation
}

// NewSession opens a checkout for the given customer and cart snapshot. All
// discount sources and the saved address list are fetched before it returns;
// a failed fetch degrades to "no reward of this kind available".
func NewSession(ctx context.Context, log *zap.Logger, svc Collaborators, email string, lines []pricing.CartLine) *Session {
	s := &Session{
		log:           log,
		svc:           svc,
		email:         email,
		lines:         lines,
		subtotal:      pricing.Subtotal(lines),
		state:         StateAddressSelection,
		paymentMethod: models.PaymentCashOnDelivery,
	}
	s.loadSources(ctx)
	return s
}

func (s *Session) Email() string { return s.email }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Lines() []pricing.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}

func (s *Session) SavedAddresses() []models.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedAddresses
}

// EligibleCoupons lists the coupons the customer could manually apply.
func (s *Session) EligibleCoupons() []models.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eligibleCoupons
}

// SpinReward returns the customer's unused spin reward, nil when absent.
func (s *Session) SpinReward() *pricing.SpinReward {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spin
}

// Discount resolves the session's single discount under the priority policy.
func (s *Session) Discount() pricing.Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolve()
}

// Quote recomputes the order totals from the current inputs. It is pure with
// respect to session state and safe to call after every input change.
func (s *Session) Quote() pricing.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote()
}

func (s *Session) resolve() pricing.Resolution {
	return pricing.Resolve(pricing.Inputs{
		Subtotal:       s.subtotal,
		Quiz:           s.quiz,
		Sales:          s.sales,
		Spin:           s.spin,
		SpinApplied:    s.spinApplied,
		CouponDiscount: s.couponDiscount,
	})
}

func (s *Session) quote() pricing.Totals {
	return pricing.CalculateTotals(s.subtotal, s.resolve().Amount, s.tip)
}

// SetTip accepts raw tip input. Empty or unparseable values count as zero;
// tips are never negative.
func (s *Session) SetTip(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || t < 0 {
		t = 0
	}
	s.tip = t
}

func (s *Session) SetPaymentMethod(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !models.ValidPaymentMethod(method) {
		return ErrInvalidPayment
	}
	s.paymentMethod = method
	return nil
}

// SelectAddress picks an existing saved address by id.
func (s *Session) SelectAddress(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.savedAddresses {
		if a.ID == id {
			s.useSavedID = id
			s.newAddress = nil
			return nil
		}
	}
	return ErrUnknownAddress
}

// EnterAddress stages a new shipping address. All fields must be non-empty
// and the address must not duplicate a saved one, comparing every field
// case-insensitively after trimming.
func (s *Session) EnterAddress(addr models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := addr.Validate(); err != nil {
		return err
	}
	for _, saved := range s.savedAddresses {
		if addr.SameAs(saved) {
			return ErrDuplicateAddress
		}
	}
	addr.Email = s.email
	s.newAddress = &addr
	s.useSavedID = 0
	// a fresh address staged after a failed confirmation must be saved on
	// the next attempt
	if s.saga != nil {
		delete(s.saga.done, stepSaveAddress)
	}
	return nil
}

// Next moves AddressSelection to OrderSummary. The guard revalidates the
// staged address rather than trusting the earlier selection.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAddressSelection {
		return s.wrongState(StateAddressSelection)
	}
	if s.newAddress == nil && s.useSavedID == 0 {
		return ErrNoAddress
	}
	if s.newAddress != nil {
		if err := s.newAddress.Validate(); err != nil {
			return err
		}
	}
	s.state = StateOrderSummary
	return nil
}

// Back returns from OrderSummary to AddressSelection unconditionally.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateConfirmation {
		return ErrSessionComplete
	}
	if s.state != StateOrderSummary {
		return s.wrongState(StateOrderSummary)
	}
	s.state = StateAddressSelection
	return nil
}

// ApplyCoupon applies a manually entered code. Higher-priority sources make
// coupons unavailable: the conflict is reported as a message, not a crash,
// and the checkout continues.
func (s *Session) ApplyCoupon(ctx context.Context, code string) (models.CouponApplyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateConfirmation {
		return models.CouponApplyResult{}, ErrSessionComplete
	}
	if s.spinApplied {
		return models.CouponApplyResult{}, ErrCouponWithSpin
	}
	if s.quiz != nil && s.quiz.HasReward && s.quiz.Discount > 0 && s.subtotal >= pricing.MinQuizSubtotal {
		return models.CouponApplyResult{}, ErrCouponWithQuiz
	}
	if len(s.sales) > 0 {
		return models.CouponApplyResult{}, ErrCouponWithSale
	}

	res, err := s.svc.Coupons.ApplyCoupon(ctx, models.CouponApplyRequest{
		Email:    s.email,
		Code:     code,
		Subtotal: s.subtotal,
	})
	if err != nil {
		return models.CouponApplyResult{}, fmt.Errorf("apply coupon: %w", err)
	}
	if !res.Valid {
		s.couponCode = ""
		s.couponDiscount = 0
		return res, nil
	}
	s.couponCode = code
	s.couponDiscount = res.DiscountAmount
	return res, nil
}

// ApplySpin spends the customer's one-time spin toggle. It overrides and
// clears any previously applied coupon discount; coupons stay unavailable
// for the rest of the session.
func (s *Session) ApplySpin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateConfirmation {
		return ErrSessionComplete
	}
	if s.spin == nil {
		return ErrNoSpinReward
	}
	s.spinApplied = true
	s.couponCode = ""
	s.couponDiscount = 0
	return nil
}

func (s *Session) wrongState(want State) error {
	return fmt.Errorf("checkout is in %s, not %s", s.state, want)
}
