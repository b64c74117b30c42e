package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/service"
)

type stubOrderRepo struct {
	created []models.OrderSubmission
}

func (s *stubOrderRepo) Create(ctx context.Context, sub models.OrderSubmission, number string) (string, error) {
	s.created = append(s.created, sub)
	return number, nil
}

func validSubmission() models.OrderSubmission {
	return models.OrderSubmission{
		Email:          "reader@example.com",
		Items:          []models.OrderItemSpec{{BookID: 1, Quantity: 2, Price: 250}},
		Subtotal:       500,
		Discount:       50,
		Tip:            10,
		ShippingCharge: 0,
		Total:          460,
		PaymentMethod:  models.PaymentUPI,
	}
}

func TestSubmitOrder(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := service.NewOrderService(repo, zap.NewNop())

	number, err := svc.SubmitOrder(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.NotEmpty(t, number)
	assert.Len(t, repo.created, 1)
}

func TestSubmitOrder_Validation(t *testing.T) {
	svc := service.NewOrderService(&stubOrderRepo{}, zap.NewNop())
	ctx := context.Background()

	noEmail := validSubmission()
	noEmail.Email = "  "
	_, err := svc.SubmitOrder(ctx, noEmail)
	assert.ErrorIs(t, err, service.ErrMissingEmail)

	badPay := validSubmission()
	badPay.PaymentMethod = "Barter"
	_, err = svc.SubmitOrder(ctx, badPay)
	assert.ErrorIs(t, err, service.ErrBadPaymentMethod)

	phantom := validSubmission()
	phantom.Items = nil
	_, err = svc.SubmitOrder(ctx, phantom)
	assert.ErrorIs(t, err, service.ErrEmptyOrder)

	skewed := validSubmission()
	skewed.Total = 999
	_, err = svc.SubmitOrder(ctx, skewed)
	assert.ErrorIs(t, err, service.ErrInconsistentTotals)
}

func TestSubmitOrder_EmptyCartOrder(t *testing.T) {
	svc := service.NewOrderService(&stubOrderRepo{}, zap.NewNop())

	// an empty cart still checks out: tip plus the flat shipping charge
	sub := models.OrderSubmission{
		Email:          "reader@example.com",
		Subtotal:       0,
		Tip:            20,
		ShippingCharge: 50,
		Total:          70,
		PaymentMethod:  models.PaymentCashOnDelivery,
	}
	_, err := svc.SubmitOrder(context.Background(), sub)
	assert.NoError(t, err)
}
