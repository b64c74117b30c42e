package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/repository"
	"github.com/bookverse/bookverse-api/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
	repo   *repository.OrderRepo
}

func NewOrderHandler(orders *service.OrderService, repo *repository.OrderRepo) *OrderHandler {
	return &OrderHandler{orders: orders, repo: repo}
}

// Submit handles POST /api/orders
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub models.OrderSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	number, err := h.orders.SubmitOrder(r.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingEmail),
			errors.Is(err, service.ErrEmptyOrder),
			errors.Is(err, service.ErrBadPaymentMethod),
			errors.Is(err, service.ErrInconsistentTotals):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed_submit_order")
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"orderNumber": number})
}

// ListByEmail handles GET /api/orders/{email}
func (h *OrderHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	email := urlParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email_required")
		return
	}
	orders, err := h.repo.ListByEmail(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_load_orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// List handles GET /api/orders (admin)
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_load_orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpdateStatus handles PUT /api/orders/{id}/status (admin)
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_order_id")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid_order_status")
		return
	}
	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_update_order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
