package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kofimensah/emporium-backend/api/controllers"
	"github.com/kofimensah/emporium-backend/api/middleware"
	"github.com/kofimensah/emporium-backend/internal/auth"
	"github.com/kofimensah/emporium-backend/internal/cart"
	checkoutsvc "github.com/kofimensah/emporium-backend/internal/checkout"
	"github.com/kofimensah/emporium-backend/internal/products"
	"github.com/kofimensah/emporium-backend/pkg/auth/session"
	"github.com/kofimensah/emporium-backend/pkg/config"
	"github.com/kofimensah/emporium-backend/pkg/enums"
	"github.com/kofimensah/emporium-backend/pkg/logger"
	"github.com/kofimensah/emporium-backend/pkg/redis"
)

type healthPinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database healthPinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	authService auth.Service,
	registerService auth.RegisterService,
	productService products.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authed := middleware.Auth(cfg.JWT, sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, redisClient, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.With(authed).Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(productService, logg))
		r.Get("/{slug}", controllers.GetProductBySlug(productService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authed)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Post("/", controllers.CartAddItem(cartService, logg))
			r.Patch("/", controllers.CartUpdateQuantity(cartService, logg))
			r.Delete("/", controllers.CartRemoveItem(cartService, logg))
			r.Post("/clear", controllers.CartClear(cartService, logg))
		})

		r.Post("/checkout/confirm", controllers.CheckoutConfirm(checkoutService, logg))
	})

	r.Route("/api/admin/v1/products", func(r chi.Router) {
		r.Use(authed)
		r.Use(middleware.RequireRole(enums.RoleAdmin, logg))

		r.Post("/", controllers.AdminCreateProduct(productService, logg))
		r.Patch("/{productID}", controllers.AdminUpdateProduct(productService, logg))
		r.Delete("/{productID}", controllers.AdminDeleteProduct(productService, logg))
	})

	return r
}
