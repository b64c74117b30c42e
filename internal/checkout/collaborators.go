package checkout

import (
	"context"

	"github.com/bookverse/bookverse-api/internal/models"
	"github.com/bookverse/bookverse-api/internal/pricing"
)

// Collaborator contracts consumed by a checkout session. Implementations live
// in internal/service; tests substitute fakes.

type QuizService interface {
	GetQuizReward(ctx context.Context, email string) (pricing.QuizReward, error)
	ConsumeQuizReward(ctx context.Context, email string) error
}

type SaleService interface {
	GetActiveSaleEvents(ctx context.Context) ([]pricing.SaleEvent, error)
}

type CouponService interface {
	GetEligibleCoupons(ctx context.Context, email string) ([]models.Coupon, error)
	// ApplyCoupon validates the code and returns either a discount amount or
	// a rejection reason in the result's Message. The session takes the
	// returned amount as-is.
	ApplyCoupon(ctx context.Context, req models.CouponApplyRequest) (models.CouponApplyResult, error)
}

type SpinService interface {
	// GetUnusedSpinReward returns nil when the customer has no unused reward.
	GetUnusedSpinReward(ctx context.Context, email string) (*pricing.SpinReward, error)
	MarkSpinRewardUsed(ctx context.Context, rewardID int) error
}

type AddressService interface {
	ListAddresses(ctx context.Context, email string) ([]models.Address, error)
	SaveAddress(ctx context.Context, addr models.Address) (models.Address, error)
}

type OrderService interface {
	SubmitOrder(ctx context.Context, sub models.OrderSubmission) (string, error)
}

type CartService interface {
	ClearCart(ctx context.Context, email string) error
}

// Collaborators bundles every external dependency of a session.
type Collaborators struct {
	Quiz      QuizService
	Sales     SaleService
	Coupons   CouponService
	Spins     SpinService
	Addresses AddressService
	Orders    OrderService
	Cart      CartService
}
