package models

// CouponApplyRequest is the input to a manual coupon application.
type CouponApplyRequest struct {
	Email    string
	Code     string
	Subtotal float64
}

// CouponApplyResult reports either a discount amount or a rejection reason.
// Message is empty when the coupon applied.
type CouponApplyResult struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discountAmount,omitempty"`
	Message        string  `json:"message,omitempty"`
}

// Rejection reasons returned by the coupon apply service.
const (
	CouponNotFound        = "coupon_not_found"
	CouponExpired         = "coupon_expired"
	CouponMinOrderNotMet  = "min_order_value_not_met"
	CouponAlreadyUsed     = "coupon_already_used"
	CouponNotAssigned     = "coupon_not_assigned_to_user"
	CouponOutOfStock      = "coupon_out_of_stock"
	CouponInternalFailure = "internal_error"
)
