package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bookverse/bookverse-api/internal/models"
)

// Repos required by services (interfaces to allow mocking)
type CouponRepo interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	ListUnexpired(ctx context.Context, now time.Time) ([]models.Coupon, error)
	HasUsed(ctx context.Context, couponID int, email string) (bool, error)
	GetAndLockStock(ctx context.Context, tx *sql.Tx, couponID int) (models.CouponStock, error)
	RecordUse(ctx context.Context, tx *sql.Tx, couponID int, email string) error
}

type CouponService struct {
	db   *sql.DB // used for transactions
	repo CouponRepo
	log  *zap.Logger
}

func NewCouponService(db *sql.DB, repo CouponRepo, log *zap.Logger) *CouponService {
	return &CouponService{db: db, repo: repo, log: log}
}

// ApplyCoupon performs full validation and, if valid, consumes one unit of
// stock atomically. Rejections come back in the result's Message; the error
// return is reserved for infrastructure failures.
func (s *CouponService) ApplyCoupon(ctx context.Context, req models.CouponApplyRequest) (models.CouponApplyResult, error) {
	// short request-scoped deadline to avoid long-running ops
	ctx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()

	coupon, err := s.repo.GetByCode(ctx, req.Code)
	if err != nil {
		return models.CouponApplyResult{Message: models.CouponInternalFailure}, fmt.Errorf("load coupon: %w", err)
	}
	if coupon == nil {
		return models.CouponApplyResult{Message: models.CouponNotFound}, nil
	}

	now := time.Now().UTC()
	if coupon.ExpiryDate.Before(now) {
		return models.CouponApplyResult{Message: models.CouponExpired}, nil
	}
	if coupon.MinimumOrderAmount > req.Subtotal {
		return models.CouponApplyResult{Message: models.CouponMinOrderNotMet}, nil
	}
	if coupon.Personal() && !strings.EqualFold(coupon.AssignedToEmail, req.Email) {
		return models.CouponApplyResult{Message: models.CouponNotAssigned}, nil
	}

	used, err := s.repo.HasUsed(ctx, coupon.ID, req.Email)
	if err != nil {
		return models.CouponApplyResult{Message: models.CouponInternalFailure}, fmt.Errorf("usage check: %w", err)
	}
	if used {
		return models.CouponApplyResult{Message: models.CouponAlreadyUsed}, nil
	}

	// Stock is consumed under SELECT FOR UPDATE so two customers cannot
	// both redeem the last unit.
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return models.CouponApplyResult{Message: models.CouponInternalFailure}, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stock, err := s.repo.GetAndLockStock(ctx, tx, coupon.ID)
	if err != nil {
		return models.CouponApplyResult{Message: models.CouponInternalFailure}, fmt.Errorf("lock stock: %w", err)
	}
	if stock.Remaining() <= 0 {
		return models.CouponApplyResult{Message: models.CouponOutOfStock}, nil
	}

	if err := s.repo.RecordUse(ctx, tx, coupon.ID, req.Email); err != nil {
		return models.CouponApplyResult{Message: models.CouponInternalFailure}, fmt.Errorf("record use: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.CouponApplyResult{Message: models.CouponInternalFailure}, fmt.Errorf("tx commit: %w", err)
	}
	committed = true

	discount := coupon.DiscountFor(req.Subtotal)
	s.log.Info("coupon applied",
		zap.String("code", coupon.Code),
		zap.String("email", req.Email),
		zap.Float64("discount", discount))

	return models.CouponApplyResult{Valid: true, DiscountAmount: discount}, nil
}

// GetEligibleCoupons lists the coupons the customer could redeem right now:
// unexpired, stock remaining, not personal to someone else, not already used.
func (s *CouponService) GetEligibleCoupons(ctx context.Context, email string) ([]models.Coupon, error) {
	coupons, err := s.repo.ListUnexpired(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	eligible := []models.Coupon{}
	for _, c := range coupons {
		if c.Stock.Remaining() <= 0 {
			continue
		}
		if c.Personal() && !strings.EqualFold(c.AssignedToEmail, email) {
			continue
		}
		used, err := s.repo.HasUsed(ctx, c.ID, email)
		if err != nil {
			// be conservative and skip this coupon
			s.log.Warn("usage check failed", zap.String("code", c.Code), zap.Error(err))
			continue
		}
		if used {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible, nil
}
