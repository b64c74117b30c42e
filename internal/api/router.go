package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bookverse/bookverse-api/internal/api/handlers"
	"github.com/bookverse/bookverse-api/internal/api/middleware"
	"github.com/bookverse/bookverse-api/internal/cache"
	"github.com/bookverse/bookverse-api/internal/checkout"
	"github.com/bookverse/bookverse-api/internal/repository"
	"github.com/bookverse/bookverse-api/internal/service"
)

// NewRouter wires repositories, services and handlers onto the HTTP router.
func NewRouter(db *sql.DB, log *zap.Logger, jwtSecret string) http.Handler {
	bookRepo := repository.NewBookRepo(db)
	userRepo := repository.NewUserRepo(db)
	cartRepo := repository.NewCartRepo(db)
	addressRepo := repository.NewAddressRepo(db)
	couponRepo := repository.NewCouponRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	rewardRepo := repository.NewRewardRepo(db)

	userSvc := service.NewUserService(userRepo, jwtSecret, log)
	couponSvc := service.NewCouponService(db, couponRepo, log)
	rewardSvc := service.NewRewardService(rewardRepo, cache.NewSaleCache(cache.DefaultSaleTTL))
	orderSvc := service.NewOrderService(orderRepo, log)
	addressSvc := service.NewAddressService(addressRepo)
	cartSvc := service.NewCartService(cartRepo)

	collaborators := checkout.Collaborators{
		Quiz:      rewardSvc,
		Sales:     rewardSvc,
		Coupons:   couponSvc,
		Spins:     rewardSvc,
		Addresses: addressSvc,
		Orders:    orderSvc,
		Cart:      cartSvc,
	}

	books := handlers.NewBookHandler(bookRepo)
	users := handlers.NewUserHandler(userSvc, userRepo)
	carts := handlers.NewCartHandler(cartRepo)
	addresses := handlers.NewAddressHandler(addressRepo)
	coupons := handlers.NewCouponHandler(couponSvc, couponRepo)
	orders := handlers.NewOrderHandler(orderSvc, orderRepo)
	rewards := handlers.NewRewardHandler(rewardSvc)
	admin := handlers.NewAdminHandler(orderRepo, bookRepo)
	checkouts := handlers.NewCheckoutHandler(log, collaborators, cartSvc)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Authenticate(jwtSecret))

	r.Route("/api", func(r chi.Router) {
		r.Route("/books", func(r chi.Router) {
			r.Get("/", books.List)
			r.Get("/trending", books.Trending)
			r.Get("/search", books.Search)
			r.Get("/match", books.Match)
			r.Get("/category/{category}", books.ByCategory)
			r.Get("/{id}", books.Get)
			r.With(middleware.RequireAdmin).Post("/", books.Create)
			r.With(middleware.RequireAdmin).Put("/{id}", books.Update)
			r.With(middleware.RequireAdmin).Delete("/{id}", books.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/signup", users.Signup)
			r.Post("/login", users.Login)
			r.Put("/reset-password", users.ResetPassword)
			r.Get("/{id}", users.Get)
			r.Put("/{id}", users.Update)
			r.With(middleware.RequireAdmin).Get("/", users.List)
			r.With(middleware.RequireAdmin).Delete("/{id}", users.Delete)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", carts.Add)
			r.Put("/", carts.UpdateQuantity)
			r.Get("/{email}", carts.List)
			r.Delete("/{email}", carts.Clear)
			r.Delete("/{email}/{bookId}", carts.Remove)
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Post("/", addresses.Create)
			r.Get("/{email}", addresses.List)
			r.Delete("/{email}/{id}", addresses.Delete)
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/eligible/{email}", coupons.Eligible)
			r.Post("/apply", coupons.Apply)
			r.With(middleware.RequireAdmin).Get("/", coupons.List)
			r.With(middleware.RequireAdmin).Post("/", coupons.Create)
			r.With(middleware.RequireAdmin).Put("/{id}", coupons.Update)
			r.With(middleware.RequireAdmin).Delete("/{id}", coupons.Delete)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/reward/{email}", rewards.QuizReward)
			r.Post("/reward", rewards.GrantQuizReward)
			r.Post("/consume/{email}", rewards.ConsumeQuizReward)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/active", rewards.ActiveSales)
			r.With(middleware.RequireAdmin).Post("/", rewards.CreateSale)
			r.With(middleware.RequireAdmin).Put("/{id}", rewards.UpdateSale)
			r.With(middleware.RequireAdmin).Delete("/{id}", rewards.DeleteSale)
		})

		r.Route("/spin", func(r chi.Router) {
			r.Post("/", rewards.Spin)
			r.Get("/reward/{email}", rewards.SpinReward)
			r.Post("/mark-used/{id}", rewards.MarkSpinUsed)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.Submit)
			r.Get("/{email}", orders.ListByEmail)
			r.With(middleware.RequireAdmin).Get("/", orders.List)
			r.With(middleware.RequireAdmin).Put("/{id}/status", orders.UpdateStatus)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkouts.Begin)
			r.Get("/{id}", checkouts.Get)
			r.Post("/{id}/address", checkouts.EnterAddress)
			r.Post("/{id}/address/select", checkouts.SelectAddress)
			r.Post("/{id}/next", checkouts.Next)
			r.Post("/{id}/back", checkouts.Back)
			r.Put("/{id}/tip", checkouts.SetTip)
			r.Put("/{id}/payment", checkouts.SetPayment)
			r.Post("/{id}/coupon", checkouts.ApplyCoupon)
			r.Post("/{id}/spin", checkouts.ApplySpin)
			r.Post("/{id}/confirm", checkouts.Confirm)
		})

		r.Route("/admin/reports", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/sales", admin.SalesReport)
			r.Get("/stock", admin.StockReport)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
