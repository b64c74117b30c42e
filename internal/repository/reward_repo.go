package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/pricing"
)

// RewardRepo covers the three gamified discount sources: monthly quiz
// rewards, sale events and spin-wheel rewards.
type RewardRepo struct {
	db *sql.DB
}

func NewRewardRepo(db *sql.DB) *RewardRepo {
	return &RewardRepo{db: db}
}

// GetQuizReward returns the customer's unconsumed quiz reward; absence is a
// zero-valued reward, not an error.
func (r *RewardRepo) GetQuizReward(ctx context.Context, email string) (pricing.QuizReward, error) {
	var q pricing.QuizReward
	query := `
		SELECT has_reward, discount
		FROM quiz_rewards
		WHERE lower(email) = lower($1) AND NOT consumed
	`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&q.HasReward, &q.Discount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.QuizReward{}, nil
		}
		return pricing.QuizReward{}, err
	}
	return q, nil
}

// GrantQuizReward records a quiz win. A repeat win before the previous
// reward is consumed just refreshes the discount.
func (r *RewardRepo) GrantQuizReward(ctx context.Context, email string, discount float64) error {
	query := `
		INSERT INTO quiz_rewards (email, has_reward, discount, consumed)
		VALUES (lower($1), TRUE, $2, FALSE)
		ON CONFLICT (email) DO UPDATE
		SET has_reward = TRUE, discount = $2, consumed = FALSE
	`
	_, err := r.db.ExecContext(ctx, query, email, discount)
	return err
}

func (r *RewardRepo) ConsumeQuizReward(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE quiz_rewards SET consumed = TRUE WHERE lower(email) = lower($1) AND NOT consumed`,
		email)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ListActiveSaleEvents returns the sales whose window contains now.
func (r *RewardRepo) ListActiveSaleEvents(ctx context.Context, now time.Time) ([]models.SaleEvent, error) {
	query := `
		SELECT id, title, discount_percentage, starts_at, ends_at
		FROM sale_events
		WHERE starts_at <= $1 AND ends_at >= $1
		ORDER BY discount_percentage DESC
	`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.SaleEvent
	for rows.Next() {
		var e models.SaleEvent
		if err := rows.Scan(&e.ID, &e.Title, &e.DiscountPercentage, &e.StartsAt, &e.EndsAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *RewardRepo) CreateSaleEvent(ctx context.Context, e *models.SaleEvent) error {
	query := `
		INSERT INTO sale_events (title, discount_percentage, starts_at, ends_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		e.Title, e.DiscountPercentage, e.StartsAt, e.EndsAt).Scan(&e.ID)
}

func (r *RewardRepo) UpdateSaleEvent(ctx context.Context, e *models.SaleEvent) error {
	query := `
		UPDATE sale_events
		SET title = $1, discount_percentage = $2, starts_at = $3, ends_at = $4
		WHERE id = $5
	`
	res, err := r.db.ExecContext(ctx, query,
		e.Title, e.DiscountPercentage, e.StartsAt, e.EndsAt, e.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *RewardRepo) DeleteSaleEvent(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sale_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// GetUnusedSpinReward returns nil when the customer has no pending reward.
func (r *RewardRepo) GetUnusedSpinReward(ctx context.Context, email string) (*models.SpinReward, error) {
	var s models.SpinReward
	query := `
		SELECT id, email, reward_type, reward_value, used, created_at
		FROM spin_rewards
		WHERE lower(email) = lower($1) AND NOT used
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&s.ID, &s.Email, &s.RewardType, &s.RewardValue, &s.Used, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *RewardRepo) MarkSpinRewardUsed(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE spin_rewards SET used = TRUE WHERE id = $1 AND NOT used`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *RewardRepo) CreateSpinReward(ctx context.Context, s *models.SpinReward) error {
	query := `
		INSERT INTO spin_rewards (email, reward_type, reward_value, used, created_at)
		VALUES ($1,$2,$3,FALSE,$4)
		RETURNING id
	`
	s.CreatedAt = time.Now().UTC()
	return r.db.QueryRowContext(ctx, query,
		s.Email, s.RewardType, s.RewardValue, s.CreatedAt).Scan(&s.ID)
}
