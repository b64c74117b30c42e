package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/repository"
	"github.com/bookverse/bookverse-api/internal/service"
)

type CreateCouponRequest struct {
	Code               string   `json:"code"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	DiscountAmount     *float64 `json:"discountAmount,omitempty"`
	MinimumOrderAmount float64  `json:"minimumOrderAmount"`
	AssignedToEmail    string   `json:"assignedToEmail,omitempty"`
	ExpiryDate         string   `json:"expiryDate"` // RFC3339
	TotalQuantity      int      `json:"totalQuantity"`
}

type CouponHandler struct {
	coupons *service.CouponService
	repo    *repository.CouponRepo
}

func NewCouponHandler(coupons *service.CouponService, repo *repository.CouponRepo) *CouponHandler {
	return &CouponHandler{coupons: coupons, repo: repo}
}

// Eligible handles GET /api/coupons/eligible/{email}
func (h *CouponHandler) Eligible(w http.ResponseWriter, r *http.Request) {
	email := urlParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email_required")
		return
	}
	list, err := h.coupons.GetEligibleCoupons(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_coupons")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Apply handles POST /api/coupons/apply
func (h *CouponHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string  `json:"email"`
		Code     string  `json:"code"`
		Subtotal float64 `json:"subtotal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Email == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "email and code required")
		return
	}
	result, err := h.coupons.ApplyCoupon(r.Context(), models.CouponApplyRequest{
		Email:    req.Email,
		Code:     req.Code,
		Subtotal: req.Subtotal,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, models.CouponInternalFailure)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Create handles POST /api/coupons (admin)
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code required")
		return
	}
	if (req.DiscountPercentage == nil) == (req.DiscountAmount == nil) {
		writeError(w, http.StatusBadRequest, "exactly one of discountPercentage or discountAmount required")
		return
	}
	expiry, err := time.Parse(time.RFC3339, req.ExpiryDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expiryDate; use RFC3339")
		return
	}
	if req.TotalQuantity <= 0 {
		writeError(w, http.StatusBadRequest, "totalQuantity must be positive")
		return
	}

	coupon := models.Coupon{
		Code:               req.Code,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		MinimumOrderAmount: req.MinimumOrderAmount,
		AssignedToEmail:    req.AssignedToEmail,
		ExpiryDate:         expiry,
		Stock:              models.CouponStock{TotalQuantity: req.TotalQuantity},
	}
	if err := h.repo.Create(r.Context(), &coupon); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_create_coupon")
		return
	}
	writeJSON(w, http.StatusCreated, coupon)
}

// List handles GET /api/coupons (admin)
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_coupons")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Update handles PUT /api/coupons/{id} (admin)
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_coupon_id")
		return
	}
	var req CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "code required")
		return
	}
	if (req.DiscountPercentage == nil) == (req.DiscountAmount == nil) {
		writeError(w, http.StatusBadRequest, "exactly one of discountPercentage or discountAmount required")
		return
	}
	expiry, err := time.Parse(time.RFC3339, req.ExpiryDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expiryDate; use RFC3339")
		return
	}
	if req.TotalQuantity <= 0 {
		writeError(w, http.StatusBadRequest, "totalQuantity must be positive")
		return
	}

	coupon := models.Coupon{
		ID:                 id,
		Code:               req.Code,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		MinimumOrderAmount: req.MinimumOrderAmount,
		AssignedToEmail:    req.AssignedToEmail,
		ExpiryDate:         expiry,
		Stock:              models.CouponStock{TotalQuantity: req.TotalQuantity},
	}
	if err := h.repo.Update(r.Context(), &coupon); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "coupon_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_update_coupon")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/coupons/{id} (admin)
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_coupon_id")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "coupon_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_delete_coupon")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
