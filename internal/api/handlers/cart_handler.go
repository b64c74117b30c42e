package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bookverse/bookverse-api/internal/repository"
)

type CartHandler struct {
	carts *repository.CartRepo
}

func NewCartHandler(carts *repository.CartRepo) *CartHandler {
	return &CartHandler{carts: carts}
}

// List handles GET /api/cart/{email}
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	email := urlParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email_required")
		return
	}
	items, err := h.carts.Items(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_load_cart")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Add handles POST /api/cart
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		BookID   int    `json:"bookId"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Email == "" || req.BookID <= 0 {
		writeError(w, http.StatusBadRequest, "email and bookId required")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if err := h.carts.Upsert(r.Context(), req.Email, req.BookID, req.Quantity); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_add_to_cart")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "added_to_cart"})
}

// UpdateQuantity handles PUT /api/cart
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		BookID   int    `json:"bookId"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Quantity <= 0 {
		// dropping to zero removes the line
		if err := h.carts.Remove(r.Context(), req.Email, req.BookID); err != nil {
			writeError(w, http.StatusInternalServerError, "failed_update_cart")
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.carts.SetQuantity(r.Context(), req.Email, req.BookID, req.Quantity); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_update_cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /api/cart/{email}/{bookId}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	email := urlParam(r, "email")
	bookID, ok := urlParamInt(r, "bookId")
	if email == "" || !ok {
		writeError(w, http.StatusBadRequest, "email and bookId required")
		return
	}
	if err := h.carts.Remove(r.Context(), email, bookID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_remove_from_cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/cart/{email}
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	email := urlParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email_required")
		return
	}
	if err := h.carts.Clear(r.Context(), email); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_clear_cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
