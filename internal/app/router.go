package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/homedeco-shop/internal/access"
	"github.com/linemk/homedeco-shop/internal/app/handlers"
	"github.com/linemk/homedeco-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/homedeco-shop/internal/lib/logger/handlers/urllog"
	"github.com/linemk/homedeco-shop/internal/service"
	"github.com/linemk/homedeco-shop/internal/storage"
)

// NewRouter собирает репозитории, сервисы и маршруты API
func NewRouter(a *App) http.Handler {
	log := a.Logger
	shop := a.Config.Shop

	// реализация слоев по работе с БД по каждому направлению
	transactor := storage.NewTransactor(a.DB)
	userRepo := storage.NewUserRepository(a.DB)
	productRepo := storage.NewProductRepository(a.DB)
	orderRepo := storage.NewOrderRepository(a.DB)
	testimonyRepo := storage.NewTestimonyRepository(a.DB)
	wishlistRepo := storage.NewWishlistRepository(a.DB)
	contentRepo := storage.NewContentRepository(a.DB)
	statsRepo := storage.NewStatsRepository(a.DB)

	authService := service.NewAuthService(log, userRepo, a.Tokens, a.Config.JWT.Secret, a.Config.JWT.TTL())
	checkoutService := service.NewCheckoutService(log, transactor, productRepo, orderRepo, a.Metrics)
	orderService := service.NewOrderService(log, orderRepo)
	catalogService := service.NewCatalogService(log, productRepo, shop.PageSize)
	testimonyService := service.NewTestimonyService(log, testimonyRepo, shop.ApprovedOnHome)
	wishlistService := service.NewWishlistService(log, wishlistRepo, productRepo)
	contentService := service.NewContentService(log, contentRepo)
	statsService := service.NewStatsService(log, statsRepo, shop.LowStockThreshold, shop.RecentOrders)

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(a.Metrics.Middleware)

	router.Method(http.MethodGet, a.Config.Metrics.Path, a.Metrics.Handler())

	router.Route("/api", func(r chi.Router) {
		// витрина доступна без авторизации
		r.Post("/register", handlers.RegisterHandler(log, authService))
		r.Post("/login", handlers.LoginHandler(log, authService))
		r.Get("/products", handlers.ListProductsHandler(log, catalogService))
		r.Get("/products/{id}", handlers.GetProductHandler(log, catalogService))
		r.Get("/content/{key}", handlers.ContentBlockHandler(log, contentService))
		r.Get("/pricing-plans", handlers.PricingPlansHandler(log, contentService))
		r.Get("/testimonies", handlers.PublicTestimoniesHandler(log, testimonyService))
		r.Post("/contact", handlers.ContactHandler(log, contentService))

		r.Group(func(r chi.Router) {
			r.Use(jwtmiddleware.NewJWTMiddleware(a.Config.JWT.Secret, a.Tokens))

			r.Group(func(r chi.Router) {
				r.Use(access.RequireRole(access.ResourceAccount))

				r.Post("/logout", handlers.LogoutHandler(log, authService))
				r.Post("/checkout", handlers.CheckoutHandler(log, checkoutService))

				r.Route("/user", func(r chi.Router) {
					r.Get("/", handlers.CurrentUserHandler(log, authService))
					r.Put("/profile", handlers.UpdateProfileHandler(log, authService))
					r.Get("/stats", handlers.UserStatsHandler(log, statsService))
					r.Get("/orders", handlers.UserOrdersHandler(log, orderService))
					r.Get("/wishlist", handlers.WishlistHandler(log, wishlistService))
					r.Post("/wishlist/toggle", handlers.ToggleWishlistHandler(log, wishlistService))
					r.Get("/testimonies", handlers.UserTestimoniesHandler(log, testimonyService))
					r.Post("/testimonies", handlers.SubmitTestimonyHandler(log, testimonyService))
					r.Delete("/testimonies/{id}", handlers.DeleteTestimonyHandler(log, testimonyService))
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(access.RequireRole(access.ResourceAdmin))

				r.Get("/stats", handlers.AdminStatsHandler(log, statsService))
				r.Patch("/orders/{id}/status", handlers.OrderStatusHandler(log, orderService))
				r.Patch("/testimonies/{id}/approval", handlers.TestimonyApprovalHandler(log, testimonyService))
				r.Post("/products", handlers.CreateProductHandler(log, catalogService))
				r.Put("/products/{id}", handlers.UpdateProductHandler(log, catalogService))
				r.Put("/content/{key}", handlers.SaveContentBlockHandler(log, contentService))
			})
		})
	})

	return router
}
