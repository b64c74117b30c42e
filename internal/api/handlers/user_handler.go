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

type UserHandler struct {
	users *service.UserService
	repo  *repository.UserRepo
}

func NewUserHandler(users *service.UserService, repo *repository.UserRepo) *UserHandler {
	return &UserHandler{users: users, repo: repo}
}

// Signup handles POST /api/users/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}
	user, err := h.users.Signup(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email_already_registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_signup")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "user_registered",
		"userId":  user.ID,
	})
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_login")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ResetPassword handles PUT /api/users/reset-password
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if err := h.users.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		writeError(w, http.StatusNotFound, "user_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_user_id")
		return
	}
	user, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_load_user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user_not_found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_user_id")
		return
	}
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	user.ID = id

	// reject an email move onto another account
	existing, err := h.repo.GetByEmail(r.Context(), user.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_update_user")
		return
	}
	if existing != nil && existing.ID != id {
		writeError(w, http.StatusConflict, "email_already_registered")
		return
	}

	if err := h.repo.Update(r.Context(), &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_update_user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/users (admin)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Delete handles DELETE /api/users/{id} (admin)
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_user_id")
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_delete_user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
