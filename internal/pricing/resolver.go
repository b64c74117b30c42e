package pricing

// Inputs carries every discount source visible to one checkout session.
// Quiz and Spin are nil when absent. CouponDiscount is the amount the coupon
// service returned for a manually applied code; it is never recomputed here.
type Inputs struct {
	Subtotal       float64
	Quiz           *QuizReward
	Sales          []SaleEvent
	Spin           *SpinReward
	SpinApplied    bool
	CouponDiscount float64
}

// Source identifies which provider produced the resolved discount.
type Source string

const (
	SourceNone   Source = "none"
	SourceQuiz   Source = "quiz"
	SourceSale   Source = "sale"
	SourceSpin   Source = "spin"
	SourceCoupon Source = "coupon"
)

// Resolution is the single discount picked for a session.
type Resolution struct {
	Source Source
	Amount float64
	// Sale is set when the winning source is a sale event.
	Sale *SaleEvent
}

// provider computes the discount for one reward kind. The bool reports
// whether the provider's preconditions hold.
type provider struct {
	source Source
	apply  func(in Inputs) (float64, bool)
}

// providers is the priority chain: quiz > sale > spin > coupon. Evaluation
// short-circuits on the first applicable source, so lower-priority sources
// are inert once a higher one is present, never additive.
var providers = []provider{
	{SourceQuiz, quizDiscount},
	{SourceSale, saleDiscount},
	{SourceSpin, spinDiscount},
	{SourceCoupon, couponDiscount},
}

// Resolve picks exactly one discount under the fixed priority policy.
// Every precondition is re-checked here, immediately before the amount is
// computed, so a stale selection (say a coupon code still set after a sale
// went live) cannot survive a state change.
func Resolve(in Inputs) Resolution {
	for _, p := range providers {
		amount, ok := p.apply(in)
		if !ok {
			continue
		}
		if amount < 0 {
			amount = 0
		}
		res := Resolution{Source: p.source, Amount: amount}
		if p.source == SourceSale {
			if best, ok := BestSale(in.Sales); ok {
				res.Sale = &best
			}
		}
		return res
	}
	return Resolution{Source: SourceNone}
}

func quizDiscount(in Inputs) (float64, bool) {
	if in.Quiz == nil || !in.Quiz.HasReward || in.Quiz.Discount <= 0 {
		return 0, false
	}
	if in.Subtotal < MinQuizSubtotal {
		return 0, false
	}
	return in.Quiz.Discount, true
}

// BestSale returns the active sale event with the highest percentage.
func BestSale(sales []SaleEvent) (SaleEvent, bool) {
	if len(sales) == 0 {
		return SaleEvent{}, false
	}
	best := sales[0]
	for _, s := range sales[1:] {
		if s.DiscountPercentage > best.DiscountPercentage {
			best = s
		}
	}
	return best, true
}

func saleDiscount(in Inputs) (float64, bool) {
	best, ok := BestSale(in.Sales)
	if !ok {
		return 0, false
	}
	return in.Subtotal * best.DiscountPercentage / 100, true
}

func spinDiscount(in Inputs) (float64, bool) {
	// An applied spin reward wins even when its value parses to zero; the
	// customer spent the one-time toggle on it.
	if !in.SpinApplied || in.Spin == nil {
		return 0, false
	}
	return SpinValue(in.Spin.RewardValue, in.Subtotal), true
}

func couponDiscount(in Inputs) (float64, bool) {
	if in.CouponDiscount <= 0 {
		return 0, false
	}
	return in.CouponDiscount, true
}
