package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/repository"
)

var couponRows = []string{
	"id", "code", "discount_percentage", "discount_amount",
	"minimum_order_amount", "assigned_to_email", "expiry_date",
	"total_quantity", "used_count", "created_at", "updated_at",
}

func TestCouponRepoList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewCouponRepo(db)

	now := time.Now()
	pct := 10.0
	mock.ExpectQuery("FROM coupons c JOIN coupon_stock s").
		WillReturnRows(sqlmock.NewRows(couponRows).
			AddRow(1, "WELCOME10", pct, nil, 0.0, nil, now.Add(-time.Hour), 100, 100, now, now).
			AddRow(2, "FESTIVE50", nil, 50.0, 300.0, "vip@example.com", now.Add(time.Hour), 10, 3, now, now))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	// the admin list keeps expired and exhausted coupons visible
	assert.Equal(t, "WELCOME10", list[0].Code)
	assert.Equal(t, 0, list[0].Stock.Remaining())
	assert.Equal(t, "vip@example.com", list[1].AssignedToEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCouponRepoUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewCouponRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE coupons").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE coupon_stock SET total_quantity").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	amount := 50.0
	err = repo.Update(context.Background(), &models.Coupon{
		ID:                 2,
		Code:               "FESTIVE50",
		DiscountAmount:     &amount,
		MinimumOrderAmount: 300,
		ExpiryDate:         time.Now().Add(48 * time.Hour),
		Stock:              models.CouponStock{TotalQuantity: 25},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCouponRepoUpdate_MissingCoupon(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := repository.NewCouponRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE coupons").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	pct := 10.0
	err = repo.Update(context.Background(), &models.Coupon{
		ID:                 99,
		Code:               "GHOST",
		DiscountPercentage: &pct,
		ExpiryDate:         time.Now(),
		Stock:              models.CouponStock{TotalQuantity: 1},
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
