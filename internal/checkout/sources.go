package checkout

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// loadSources fans out the independent, read-only discount-source fetches and
// the saved-address list. Every fetch must settle before the resolver is
// allowed to run, so this blocks until all goroutines return. A failure in
// any one source degrades that source to absent; it never aborts checkout.
func (s *Session) loadSources(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(5)

	go func() {
		defer wg.Done()
		quiz, err := s.svc.Quiz.GetQuizReward(ctx, s.email)
		if err != nil {
			s.log.Warn("quiz reward fetch failed", zap.Error(err))
			return
		}
		if quiz.HasReward && quiz.Discount > 0 {
			s.quiz = &quiz
		}
	}()

	go func() {
		defer wg.Done()
		sales, err := s.svc.Sales.GetActiveSaleEvents(ctx)
		if err != nil {
			s.log.Warn("sale events fetch failed", zap.Error(err))
			return
		}
		s.sales = sales
	}()

	go func() {
		defer wg.Done()
		coupons, err := s.svc.Coupons.GetEligibleCoupons(ctx, s.email)
		if err != nil {
			s.log.Warn("eligible coupons fetch failed", zap.Error(err))
			return
		}
		s.eligibleCoupons = coupons
	}()

	go func() {
		defer wg.Done()
		spin, err := s.svc.Spins.GetUnusedSpinReward(ctx, s.email)
		if err != nil {
			s.log.Warn("spin reward fetch failed", zap.Error(err))
			return
		}
		s.spin = spin
	}()

	go func() {
		defer wg.Done()
		addrs, err := s.svc.Addresses.ListAddresses(ctx, s.email)
		if err != nil {
			s.log.Warn("address list fetch failed", zap.Error(err))
			return
		}
		s.savedAddresses = addrs
	}()

	wg.Wait()
}
