package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/service"
)

// RewardHandler exposes the three gamified discount sources: quiz rewards,
// sale events and the spin wheel.
type RewardHandler struct {
	rewards *service.RewardService
}

func NewRewardHandler(rewards *service.RewardService) *RewardHandler {
	return &RewardHandler{rewards: rewards}
}

// QuizReward handles GET /api/quiz/reward/{email}
func (h *RewardHandler) QuizReward(w http.ResponseWriter, r *http.Request) {
	email := urlParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email_required")
		return
	}
	reward, err := h.rewards.GetQuizReward(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_load_quiz_reward")
		return
	}
	writeJSON(w, http.StatusOK, reward)
}

// GrantQuizReward handles POST /api/quiz/reward
func (h *RewardHandler) GrantQuizReward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string  `json:"email"`
		Discount float64 `json:"discount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Email == "" || req.Discount <= 0 {
		writeError(w, http.StatusBadRequest, "email and positive discount required")
		return
	}
	if err := h.rewards.GrantQuizReward(r.Context(), req.Email, req.Discount); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_grant_quiz_reward")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "quiz_reward_granted"})
}

// ConsumeQuizReward handles POST /api/quiz/consume/{email}
func (h *RewardHandler) ConsumeQuizReward(w http.ResponseWriter, r *http.Request) {
	email := urlParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email_required")
		return
	}
	if err := h.rewards.ConsumeQuizReward(r.Context(), email); err != nil {
		writeError(w, http.StatusNotFound, "no_quiz_reward_to_consume")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "quiz_reward_consumed"})
}

// ActiveSales handles GET /api/sales/active
func (h *RewardHandler) ActiveSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.rewards.GetActiveSaleEvents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_load_sales")
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

// CreateSale handles POST /api/sales (admin)
func (h *RewardHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var e models.SaleEvent
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if e.Title == "" || e.DiscountPercentage <= 0 || e.DiscountPercentage > 100 {
		writeError(w, http.StatusBadRequest, "title and a percentage in (0,100] required")
		return
	}
	if !e.EndsAt.After(e.StartsAt) {
		writeError(w, http.StatusBadRequest, "endsAt must be after startsAt")
		return
	}
	if err := h.rewards.CreateSaleEvent(r.Context(), &e); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_create_sale")
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// UpdateSale handles PUT /api/sales/{id} (admin)
func (h *RewardHandler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_sale_id")
		return
	}
	var e models.SaleEvent
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if e.Title == "" || e.DiscountPercentage <= 0 || e.DiscountPercentage > 100 {
		writeError(w, http.StatusBadRequest, "title and a percentage in (0,100] required")
		return
	}
	if !e.EndsAt.After(e.StartsAt) {
		writeError(w, http.StatusBadRequest, "endsAt must be after startsAt")
		return
	}
	e.ID = id
	if err := h.rewards.UpdateSaleEvent(r.Context(), &e); err != nil {
		writeError(w, http.StatusNotFound, "sale_not_found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteSale handles DELETE /api/sales/{id} (admin)
func (h *RewardHandler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_sale_id")
		return
	}
	if err := h.rewards.DeleteSaleEvent(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed_delete_sale")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SpinReward handles GET /api/spin/reward/{email}
func (h *RewardHandler) SpinReward(w http.ResponseWriter, r *http.Request) {
	email := urlParam(r, "email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email_required")
		return
	}
	reward, err := h.rewards.GetUnusedSpinReward(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_load_spin_reward")
		return
	}
	if reward == nil {
		writeError(w, http.StatusNotFound, "no_pending_spin_reward")
		return
	}
	writeJSON(w, http.StatusOK, reward)
}

// MarkSpinUsed handles POST /api/spin/mark-used/{id}
func (h *RewardHandler) MarkSpinUsed(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamInt(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_reward_id")
		return
	}
	if err := h.rewards.MarkSpinRewardUsed(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "spin_reward_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "spin_reward_marked_used"})
}

// Spin handles POST /api/spin
func (h *RewardHandler) Spin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		RewardType  string `json:"rewardType"`
		RewardValue string `json:"rewardValue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.Email == "" || req.RewardValue == "" {
		writeError(w, http.StatusBadRequest, "email and rewardValue required")
		return
	}
	reward, err := h.rewards.SpinWheel(r.Context(), req.Email, req.RewardType, req.RewardValue)
	if err != nil {
		if errors.Is(err, service.ErrSpinPending) {
			writeError(w, http.StatusConflict, "spin_reward_pending")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed_record_spin")
		return
	}
	writeJSON(w, http.StatusCreated, reward)
}
