package models

import "time"

type Coupon struct {
	ID                 int         `json:"id"`
	Code               string      `json:"code"`
	DiscountPercentage *float64    `json:"discountPercentage,omitempty"`
	DiscountAmount     *float64    `json:"discountAmount,omitempty"`
	MinimumOrderAmount float64     `json:"minimumOrderAmount"`
	AssignedToEmail    string      `json:"assignedToEmail,omitempty"`
	ExpiryDate         time.Time   `json:"expiryDate"`
	Stock              CouponStock `json:"stock"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

type CouponStock struct {
	TotalQuantity int `json:"totalQuantity"`
	UsedCount     int `json:"usedCount"`
}

// Remaining reports how many redemptions are left.
func (s CouponStock) Remaining() int {
	return s.TotalQuantity - s.UsedCount
}

// Personal reports whether the coupon is restricted to one customer.
func (c Coupon) Personal() bool {
	return c.AssignedToEmail != ""
}

// DiscountFor computes the coupon's discount against a subtotal. Exactly one
// of DiscountPercentage / DiscountAmount is set per coupon.
func (c Coupon) DiscountFor(subtotal float64) float64 {
	if c.DiscountPercentage != nil {
		return subtotal * *c.DiscountPercentage / 100
	}
	if c.DiscountAmount != nil {
		return *c.DiscountAmount
	}
	return 0
}
