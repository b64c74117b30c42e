package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/repository"
)

type AddressHandler struct {
	addresses *repository.AddressRepo
}

func NewAddressHandler(addresses *repository.AddressRepo) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// List handles GET /api/addresses/{email}
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	email := urlParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email_required")
		return
	}
	list, err := h.addresses.ListByEmail(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_load_addresses")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Create handles POST /api/addresses
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var a models.Address
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := a.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	existing, err := h.addresses.ListByEmail(r.Context(), a.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_save_address")
		return
	}
	for _, saved := range existing {
		if a.SameAs(saved) {
			writeError(w, http.StatusConflict, "address_already_saved")
			return
		}
	}
	if err := h.addresses.Create(r.Context(), &a); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_save_address")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// Delete handles DELETE /api/addresses/{email}/{id}
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email := urlParam(r, "email")
	id, ok := urlParamInt(r, "id")
	if email == "" || !ok {
		writeError(w, http.StatusBadRequest, "email and id required")
		return
	}
	if err := h.addresses.Delete(r.Context(), id, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "address_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_delete_address")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
