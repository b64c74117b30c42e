package pricing

import "math"

const (
	// MinQuizSubtotal is the smallest subtotal a quiz reward applies to.
	MinQuizSubtotal = 150
	// FreeShippingThreshold is checked against the pre-shipping total.
	FreeShippingThreshold = 100
	// FlatShippingCharge is added to orders under the threshold.
	FlatShippingCharge = 50
)

// CartLine is one cart row snapshotted at checkout entry.
type CartLine struct {
	BookID    int     `json:"bookId"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal sums line totals before discount, tip and shipping.
func Subtotal(lines []CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return sum
}

type QuizReward struct {
	HasReward bool    `json:"hasReward"`
	Discount  float64 `json:"discount"`
}

type SaleEvent struct {
	Title              string  `json:"title"`
	DiscountPercentage float64 `json:"discountPercentage"`
}

type SpinReward struct {
	ID          int    `json:"id"`
	RewardType  string `json:"rewardType"`
	RewardValue string `json:"rewardValue"`
	Used        bool   `json:"used"`
}

// Totals is the derived money breakdown for an order.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	Discount       float64 `json:"discount"`
	Tip            float64 `json:"tip"`
	ShippingCharge float64 `json:"shippingCharge"`
	Total          float64 `json:"total"`
}

// CalculateTotals derives the final breakdown from fixed inputs. The shipping
// threshold is checked against the pre-shipping total, so a large tip can lift
// an otherwise-under-threshold order over the free-shipping line.
func CalculateTotals(subtotal, discount, tip float64) Totals {
	if tip < 0 || math.IsNaN(tip) {
		tip = 0
	}
	pre := subtotal - discount + tip
	shipping := 0.0
	if pre < FreeShippingThreshold {
		shipping = FlatShippingCharge
	}
	return Totals{
		Subtotal:       subtotal,
		Discount:       discount,
		Tip:            tip,
		ShippingCharge: shipping,
		Total:          pre + shipping,
	}
}
