package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookverse/bookverse-api/internal/api/handlers"
	"github.com/bookverse/bookverse-api/internal/cache"
	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/pricing"
	"github.com/bookverse/bookverse-api/internal/service"
)

type stubRewardRepo struct {
	quizConsumed []string
	quizErr      error
	spinUsed     []int
	spinErr      error
	spin         *models.SpinReward
}

func (f *stubRewardRepo) GetQuizReward(ctx context.Context, email string) (pricing.QuizReward, error) {
	return pricing.QuizReward{}, nil
}

func (f *stubRewardRepo) GrantQuizReward(ctx context.Context, email string, discount float64) error {
	return nil
}

func (f *stubRewardRepo) ConsumeQuizReward(ctx context.Context, email string) error {
	if f.quizErr != nil {
		return f.quizErr
	}
	f.quizConsumed = append(f.quizConsumed, email)
	return nil
}

func (f *stubRewardRepo) ListActiveSaleEvents(ctx context.Context, now time.Time) ([]models.SaleEvent, error) {
	return nil, nil
}

func (f *stubRewardRepo) CreateSaleEvent(ctx context.Context, e *models.SaleEvent) error {
	return nil
}

func (f *stubRewardRepo) UpdateSaleEvent(ctx context.Context, e *models.SaleEvent) error {
	return nil
}

func (f *stubRewardRepo) DeleteSaleEvent(ctx context.Context, id int) error {
	return nil
}

func (f *stubRewardRepo) GetUnusedSpinReward(ctx context.Context, email string) (*models.SpinReward, error) {
	return f.spin, nil
}

func (f *stubRewardRepo) MarkSpinRewardUsed(ctx context.Context, id int) error {
	if f.spinErr != nil {
		return f.spinErr
	}
	f.spinUsed = append(f.spinUsed, id)
	return nil
}

func (f *stubRewardRepo) CreateSpinReward(ctx context.Context, s *models.SpinReward) error {
	s.ID = 1
	return nil
}

func newRewardRouter(repo *stubRewardRepo) *chi.Mux {
	svc := service.NewRewardService(repo, cache.NewSaleCache(cache.DefaultSaleTTL))
	h := handlers.NewRewardHandler(svc)

	r := chi.NewRouter()
	r.Post("/quiz/consume/{email}", h.ConsumeQuizReward)
	r.Post("/spin/mark-used/{id}", h.MarkSpinUsed)
	return r
}

func TestConsumeQuizRewardRoute(t *testing.T) {
	repo := &stubRewardRepo{}
	r := newRewardRouter(repo)

	rec := doJSON(t, r, http.MethodPost, "/quiz/consume/reader@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"reader@example.com"}, repo.quizConsumed)
}

func TestMarkSpinUsedRoute(t *testing.T) {
	repo := &stubRewardRepo{}
	r := newRewardRouter(repo)

	rec := doJSON(t, r, http.MethodPost, "/spin/mark-used/7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{7}, repo.spinUsed)

	rec = doJSON(t, r, http.MethodPost, "/spin/mark-used/oops", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
