package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/repository"
	"github.com/bookverse/bookverse-api/internal/service"
)

func couponRow(mock sqlmock.Sqlmock, pct, amount any, minOrder float64, assigned any, expiry time.Time, total, used int) *sqlmock.Rows {
	now := time.Now()
	return mock.NewRows([]string{
		"id", "code", "discount_percentage", "discount_amount",
		"minimum_order_amount", "assigned_to_email", "expiry_date",
		"total_quantity", "used_count", "created_at", "updated_at",
	}).AddRow(1, "SAVE10", pct, amount, minOrder, assigned, expiry, total, used, now, now)
}

func newCouponService(t *testing.T) (*service.CouponService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc := service.NewCouponService(db, repository.NewCouponRepo(db), zap.NewNop())
	return svc, mock
}

func expectUsage(mock sqlmock.Sqlmock, count int) {
	mock.ExpectQuery("FROM coupon_usage").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func TestApplyCoupon_PercentageCoupon(t *testing.T) {
	svc, mock := newCouponService(t)
	expiry := time.Now().Add(24 * time.Hour)

	mock.ExpectQuery("FROM coupons c").
		WillReturnRows(couponRow(mock, 10.0, nil, 100, nil, expiry, 5, 1))
	expectUsage(mock, 0)
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"total_quantity", "used_count"}).AddRow(5, 1))
	mock.ExpectExec("UPDATE coupon_stock").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO coupon_usage").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := svc.ApplyCoupon(context.Background(), models.CouponApplyRequest{
		Email: "reader@example.com", Code: "SAVE10", Subtotal: 500,
	})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 50.0, res.DiscountAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyCoupon_FixedAmountCoupon(t *testing.T) {
	svc, mock := newCouponService(t)
	expiry := time.Now().Add(24 * time.Hour)

	mock.ExpectQuery("FROM coupons c").
		WillReturnRows(couponRow(mock, nil, 75.0, 100, nil, expiry, 5, 0))
	expectUsage(mock, 0)
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"total_quantity", "used_count"}).AddRow(5, 0))
	mock.ExpectExec("UPDATE coupon_stock").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO coupon_usage").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := svc.ApplyCoupon(context.Background(), models.CouponApplyRequest{
		Email: "reader@example.com", Code: "SAVE10", Subtotal: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, 75.0, res.DiscountAmount)
}

func TestApplyCoupon_UnknownCode(t *testing.T) {
	svc, mock := newCouponService(t)

	mock.ExpectQuery("FROM coupons c").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	res, err := svc.ApplyCoupon(context.Background(), models.CouponApplyRequest{
		Email: "reader@example.com", Code: "NOPE", Subtotal: 500,
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, models.CouponNotFound, res.Message)
}

func TestApplyCoupon_Expired(t *testing.T) {
	svc, mock := newCouponService(t)
	expired := time.Now().Add(-time.Hour)

	mock.ExpectQuery("FROM coupons c").
		WillReturnRows(couponRow(mock, 10.0, nil, 0, nil, expired, 5, 0))

	res, err := svc.ApplyCoupon(context.Background(), models.CouponApplyRequest{
		Email: "reader@example.com", Code: "SAVE10", Subtotal: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CouponExpired, res.Message)
}

func TestApplyCoupon_MinimumOrderNotMet(t *testing.T) {
	svc, mock := newCouponService(t)
	expiry := time.Now().Add(24 * time.Hour)

	mock.ExpectQuery("FROM coupons c").
		WillReturnRows(couponRow(mock, 10.0, nil, 1000, nil, expiry, 5, 0))

	res, err := svc.ApplyCoupon(context.Background(), models.CouponApplyRequest{
		Email: "reader@example.com", Code: "SAVE10", Subtotal: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CouponMinOrderNotMet, res.Message)
}

func TestApplyCoupon_AssignedToAnotherCustomer(t *testing.T) {
	svc, mock := newCouponService(t)
	expiry := time.Now().Add(24 * time.Hour)

	mock.ExpectQuery("FROM coupons c").
		WillReturnRows(couponRow(mock, 10.0, nil, 0, "other@example.com", expiry, 5, 0))

	res, err := svc.ApplyCoupon(context.Background(), models.CouponApplyRequest{
		Email: "reader@example.com", Code: "SAVE10", Subtotal: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CouponNotAssigned, res.Message)
}

func TestApplyCoupon_AlreadyUsed(t *testing.T) {
	svc, mock := newCouponService(t)
	expiry := time.Now().Add(24 * time.Hour)

	mock.ExpectQuery("FROM coupons c").
		WillReturnRows(couponRow(mock, 10.0, nil, 0, nil, expiry, 5, 0))
	expectUsage(mock, 1)

	res, err := svc.ApplyCoupon(context.Background(), models.CouponApplyRequest{
		Email: "reader@example.com", Code: "SAVE10", Subtotal: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CouponAlreadyUsed, res.Message)
}

func TestApplyCoupon_OutOfStock(t *testing.T) {
	svc, mock := newCouponService(t)
	expiry := time.Now().Add(24 * time.Hour)

	mock.ExpectQuery("FROM coupons c").
		WillReturnRows(couponRow(mock, 10.0, nil, 0, nil, expiry, 3, 3))
	expectUsage(mock, 0)
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"total_quantity", "used_count"}).AddRow(3, 3))
	mock.ExpectRollback()

	res, err := svc.ApplyCoupon(context.Background(), models.CouponApplyRequest{
		Email: "reader@example.com", Code: "SAVE10", Subtotal: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CouponOutOfStock, res.Message)
}
