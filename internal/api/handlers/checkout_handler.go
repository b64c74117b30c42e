package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookverse/bookverse-api/internal/checkout"
	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/pricing"
	"github.com/bookverse/bookverse-api/internal/service"
)

// CheckoutHandler holds live checkout sessions in memory, keyed by an opaque
// session id handed to the client at begin time.
type CheckoutHandler struct {
	log  *zap.Logger
	svc  checkout.Collaborators
	cart *service.CartService

	mu       sync.Mutex
	sessions map[string]*checkout.Session
}

func NewCheckoutHandler(log *zap.Logger, svc checkout.Collaborators, cart *service.CartService) *CheckoutHandler {
	return &CheckoutHandler{
		log:      log,
		svc:      svc,
		cart:     cart,
		sessions: make(map[string]*checkout.Session),
	}
}

func (h *CheckoutHandler) session(r *http.Request) (*checkout.Session, string, bool) {
	id := urlParam(r, "id")
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, id, ok
}

type checkoutView struct {
	SessionID       string              `json:"sessionId"`
	State           checkout.State      `json:"state"`
	Lines           []pricing.CartLine  `json:"lines"`
	SavedAddresses  []models.Address    `json:"savedAddresses"`
	EligibleCoupons []models.Coupon     `json:"eligibleCoupons"`
	SpinReward      *pricing.SpinReward `json:"spinReward,omitempty"`
	Discount        pricing.Resolution  `json:"discount"`
	Quote           pricing.Totals      `json:"quote"`
}

func (h *CheckoutHandler) view(id string, s *checkout.Session) checkoutView {
	return checkoutView{
		SessionID:       id,
		State:           s.State(),
		Lines:           s.Lines(),
		SavedAddresses:  s.SavedAddresses(),
		EligibleCoupons: s.EligibleCoupons(),
		SpinReward:      s.SpinReward(),
		Discount:        s.Discount(),
		Quote:           s.Quote(),
	}
}

// Begin handles POST /api/checkout
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email_required")
		return
	}
	lines, err := h.cart.Lines(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_load_cart")
		return
	}

	s := checkout.NewSession(r.Context(), h.log, h.svc, req.Email, lines)
	id := uuid.NewString()

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, h.view(id, s))
}

// Get handles GET /api/checkout/{id}
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "checkout_session_not_found")
		return
	}
	writeJSON(w, http.StatusOK, h.view(id, s))
}

// SelectAddress handles POST /api/checkout/{id}/address/select
func (h *CheckoutHandler) SelectAddress(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "checkout_session_not_found")
		return
	}
	var req struct {
		AddressID int `json:"addressId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := s.SelectAddress(req.AddressID); err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(id, s))
}

// EnterAddress handles POST /api/checkout/{id}/address
func (h *CheckoutHandler) EnterAddress(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "checkout_session_not_found")
		return
	}
	var addr models.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := s.EnterAddress(addr); err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(id, s))
}

// Next handles POST /api/checkout/{id}/next
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "checkout_session_not_found")
		return
	}
	if err := s.Next(); err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(id, s))
}

// Back handles POST /api/checkout/{id}/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "checkout_session_not_found")
		return
	}
	if err := s.Back(); err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(id, s))
}

// SetTip handles PUT /api/checkout/{id}/tip
func (h *CheckoutHandler) SetTip(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "checkout_session_not_found")
		return
	}
	var req struct {
		Tip string `json:"tip"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	s.SetTip(req.Tip)
	writeJSON(w, http.StatusOK, h.view(id, s))
}

// SetPayment handles PUT /api/checkout/{id}/payment
func (h *CheckoutHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "checkout_session_not_found")
		return
	}
	var req struct {
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := s.SetPaymentMethod(req.Method); err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(id, s))
}

// ApplyCoupon handles POST /api/checkout/{id}/coupon
func (h *CheckoutHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "checkout_session_not_found")
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	result, err := s.ApplyCoupon(r.Context(), req.Code)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result":   result,
		"checkout": h.view(id, s),
	})
}

// ApplySpin handles POST /api/checkout/{id}/spin
func (h *CheckoutHandler) ApplySpin(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "checkout_session_not_found")
		return
	}
	if err := s.ApplySpin(); err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(id, s))
}

// Confirm handles POST /api/checkout/{id}/confirm
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	s, id, ok := h.session(r)
	if !ok {
		writeError(w, http.StatusNotFound, "checkout_session_not_found")
		return
	}
	result, err := s.Confirm(r.Context())
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	// session is terminal once confirmed
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, result)
}

func (h *CheckoutHandler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrSessionComplete):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrDuplicateAddress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrUnknownAddress):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, checkout.ErrNoAddress),
		errors.Is(err, checkout.ErrNoSpinReward),
		errors.Is(err, checkout.ErrInvalidPayment),
		errors.Is(err, checkout.ErrCouponWithQuiz),
		errors.Is(err, checkout.ErrCouponWithSale),
		errors.Is(err, checkout.ErrCouponWithSpin):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "checkout_failed")
	}
}
