package models

import "time"

// SaleEvent is a store-wide, time-bounded percentage discount. A sale is
// active when now falls inside [StartsAt, EndsAt].
type SaleEvent struct {
	ID                 int       `json:"id"`
	Title              string    `json:"title"`
	DiscountPercentage float64   `json:"discountPercentage"`
	StartsAt           time.Time `json:"startsAt"`
	EndsAt             time.Time `json:"endsAt"`
}

// SpinReward is a per-customer one-time wheel reward with an encoded value.
type SpinReward struct {
	ID          int       `json:"id"`
	Email       string    `json:"email"`
	RewardType  string    `json:"rewardType"`
	RewardValue string    `json:"rewardValue"`
	Used        bool      `json:"used"`
	CreatedAt   time.Time `json:"createdAt"`
}
