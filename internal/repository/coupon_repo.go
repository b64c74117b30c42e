package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bookverse/bookverse-api/internal/models"
)

type CouponRepo struct {
	db *sql.DB
}

func NewCouponRepo(db *sql.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

const couponColumns = `
	c.id, c.code, c.discount_percentage, c.discount_amount,
	c.minimum_order_amount, c.assigned_to_email, c.expiry_date,
	s.total_quantity, s.used_count, c.created_at, c.updated_at
`

func scanCoupon(row interface{ Scan(...any) error }) (*models.Coupon, error) {
	var c models.Coupon
	var assigned sql.NullString
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.DiscountPercentage,
		&c.DiscountAmount,
		&c.MinimumOrderAmount,
		&assigned,
		&c.ExpiryDate,
		&c.Stock.TotalQuantity,
		&c.Stock.UsedCount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.AssignedToEmail = assigned.String
	return &c, nil
}

// GetByCode returns nil when no coupon carries the code.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons c
		JOIN coupon_stock s ON s.coupon_id = c.id
		WHERE lower(c.code) = lower($1)
	`
	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// ListUnexpired returns every coupon whose expiry is after now, with stock.
func (r *CouponRepo) ListUnexpired(ctx context.Context, now time.Time) ([]models.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons c
		JOIN coupon_stock s ON s.coupon_id = c.id
		WHERE c.expiry_date > $1
		ORDER BY c.expiry_date
	`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []models.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

// List returns every coupon, expired included, for the admin console.
func (r *CouponRepo) List(ctx context.Context) ([]models.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons c
		JOIN coupon_stock s ON s.coupon_id = c.id
		ORDER BY c.expiry_date
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []models.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

// HasUsed reports whether the customer already redeemed the coupon.
func (r *CouponRepo) HasUsed(ctx context.Context, couponID int, email string) (bool, error) {
	var n int
	query := `SELECT COUNT(*) FROM coupon_usage WHERE coupon_id = $1 AND email = $2`
	if err := r.db.QueryRowContext(ctx, query, couponID, email).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetAndLockStock reads the stock row under FOR UPDATE so concurrent
// redemptions of the last unit serialize.
func (r *CouponRepo) GetAndLockStock(ctx context.Context, tx *sql.Tx, couponID int) (models.CouponStock, error) {
	var s models.CouponStock
	query := `
		SELECT total_quantity, used_count
		FROM coupon_stock
		WHERE coupon_id = $1
		FOR UPDATE
	`
	err := tx.QueryRowContext(ctx, query, couponID).Scan(&s.TotalQuantity, &s.UsedCount)
	return s, err
}

// RecordUse consumes one unit of stock and remembers the redemption, inside
// the caller's transaction.
func (r *CouponRepo) RecordUse(ctx context.Context, tx *sql.Tx, couponID int, email string) error {
	update := `
		UPDATE coupon_stock
		SET used_count = used_count + 1
		WHERE coupon_id = $1
	`
	if _, err := tx.ExecContext(ctx, update, couponID); err != nil {
		return err
	}

	insert := `
		INSERT INTO coupon_usage (coupon_id, email, used_at)
		VALUES ($1, $2, $3)
	`
	_, err := tx.ExecContext(ctx, insert, couponID, email, time.Now().UTC())
	return err
}

// Create inserts a coupon with its stock row in one transaction.
func (r *CouponRepo) Create(ctx context.Context, c *models.Coupon) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insert := `
		INSERT INTO coupons
		(code, discount_percentage, discount_amount, minimum_order_amount,
		 assigned_to_email, expiry_date, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
		RETURNING id
	`
	var assigned any
	if c.AssignedToEmail != "" {
		assigned = c.AssignedToEmail
	}
	err = tx.QueryRowContext(ctx, insert,
		c.Code,
		c.DiscountPercentage,
		c.DiscountAmount,
		c.MinimumOrderAmount,
		assigned,
		c.ExpiryDate,
	).Scan(&c.ID)
	if err != nil {
		return err
	}

	stock := `INSERT INTO coupon_stock (coupon_id, total_quantity, used_count) VALUES ($1, $2, 0)`
	if _, err := tx.ExecContext(ctx, stock, c.ID, c.Stock.TotalQuantity); err != nil {
		return err
	}

	return tx.Commit()
}

// Update rewrites the coupon's terms and its total stock; the used count is
// only ever moved by RecordUse.
func (r *CouponRepo) Update(ctx context.Context, c *models.Coupon) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	update := `
		UPDATE coupons
		SET code = $1, discount_percentage = $2, discount_amount = $3,
		    minimum_order_amount = $4, assigned_to_email = $5,
		    expiry_date = $6, updated_at = NOW()
		WHERE id = $7
	`
	var assigned any
	if c.AssignedToEmail != "" {
		assigned = c.AssignedToEmail
	}
	res, err := tx.ExecContext(ctx, update,
		c.Code,
		c.DiscountPercentage,
		c.DiscountAmount,
		c.MinimumOrderAmount,
		assigned,
		c.ExpiryDate,
		c.ID,
	)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}

	stock := `UPDATE coupon_stock SET total_quantity = $1 WHERE coupon_id = $2`
	if _, err := tx.ExecContext(ctx, stock, c.Stock.TotalQuantity, c.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *CouponRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
