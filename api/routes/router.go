package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coronelbarros/storefront/api/controllers"
	"github.com/coronelbarros/storefront/api/middleware"
	"github.com/coronelbarros/storefront/api/responses"
	"github.com/coronelbarros/storefront/internal/auth"
	"github.com/coronelbarros/storefront/internal/cart"
	"github.com/coronelbarros/storefront/internal/catalog"
	"github.com/coronelbarros/storefront/internal/checkout"
	"github.com/coronelbarros/storefront/internal/content"
	"github.com/coronelbarros/storefront/internal/identity"
	"github.com/coronelbarros/storefront/internal/promotions"
	"github.com/coronelbarros/storefront/internal/users"
	"github.com/coronelbarros/storefront/pkg/auth/session"
	"github.com/coronelbarros/storefront/pkg/config"
	pkgerrors "github.com/coronelbarros/storefront/pkg/errors"
	"github.com/coronelbarros/storefront/pkg/logger"
	"github.com/coronelbarros/storefront/pkg/metrics"
	"github.com/coronelbarros/storefront/pkg/redis"
)

// Deps carries everything the router mounts. Pingers and Metrics may be nil.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions session.AccessSessionChecker
	// RateStore backs the login, register and checkout counters.
	RateStore redis.Store
	Gate      *identity.Gate

	Catalog  catalog.Service
	Content  content.Service
	Carts    cart.Service
	Checkout checkout.Service
	Auth     auth.Service

	Users      users.Service
	Promotions promotions.Service

	Pingers     map[string]controllers.Pinger
	HTTPMetrics *metrics.HTTPMetrics
	Metrics     http.Handler
	Now         func() time.Time
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger
	gate := d.Gate
	if gate == nil {
		gate = identity.DefaultGate()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewRateLimitPolicy(
		"register",
		cfg.RateLimit.RegisterWindow,
		cfg.RateLimit.RegisterIPLimit,
		cfg.RateLimit.RegisterEmailLimit,
	)
	checkoutPolicy := middleware.NewRateLimitPolicy(
		"checkout",
		cfg.RateLimit.CheckoutWindow,
		cfg.RateLimit.CheckoutIPLimit,
		0,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.Pingers, logg))
	})
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identify(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.Gate(gate, logg))

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/categories", controllers.ListCategories())
			r.Get("/products", controllers.ListProducts(d.Catalog, logg))
			r.Get("/products/{productId}", controllers.GetProduct(d.Catalog, logg))
			r.Get("/hero-slides", controllers.ListHeroSlides(d.Content, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.CartSession(logg))

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", controllers.CartView(d.Carts, logg))
					r.Delete("/", controllers.CartClear(d.Carts, logg))
					r.Post("/items", controllers.CartAddItem(d.Carts, logg))
					r.Patch("/items/{productId}", controllers.CartUpdateItem(d.Carts, logg))
					r.Delete("/items/{productId}", controllers.CartRemoveItem(d.Carts, logg))
				})

				r.Post("/checkout/preview", controllers.CheckoutPreview(d.Checkout, logg))
				r.With(middleware.RateLimit(checkoutPolicy, d.RateStore, logg)).
					Post("/checkout", controllers.CheckoutSubmit(d.Checkout, logg))
			})

			r.Route("/auth", func(r chi.Router) {
				r.With(middleware.RateLimit(loginPolicy, d.RateStore, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
				r.With(middleware.RateLimit(registerPolicy, d.RateStore, logg)).Post("/register", controllers.AuthRegister(d.Auth, logg))
				r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
				r.Post("/logout", controllers.AuthLogout(d.Auth, logg))
				r.Get("/me", controllers.AuthMe(d.Auth, logg))
			})

			r.Get("/account", controllers.AccountProfile(d.Auth, logg))
		})

		r.Route("/api/admin/v1", func(r chi.Router) {
			r.Get("/dashboard", controllers.AdminDashboard(d.Catalog, d.Users, d.Promotions, logg, d.Now))
			r.Get("/reports/inventory", controllers.AdminInventoryReport(d.Catalog, logg, d.Now))
			r.Get("/products", controllers.AdminListProducts(d.Catalog, logg))
			r.Post("/products", controllers.AdminCreateProduct(d.Catalog, logg))
			r.Put("/products/{productId}", controllers.AdminUpdateProduct(d.Catalog, logg))
			r.Delete("/products/{productId}", controllers.AdminDeleteProduct(d.Catalog, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminListUsers(d.Users, logg))
				r.Post("/", controllers.AdminCreateUser(d.Users, logg))
				r.Put("/{userId}/role", controllers.AdminSetUserRole(d.Users, logg))
				r.Delete("/{userId}", controllers.AdminDeleteUser(d.Users, logg))
			})

			r.Route("/hero-slides", func(r chi.Router) {
				r.Get("/", controllers.AdminListSlides(d.Content, logg))
				r.Post("/", controllers.AdminCreateSlide(d.Content, logg))
				r.Put("/order", controllers.AdminReorderSlides(d.Content, logg))
				r.Put("/{slideId}", controllers.AdminUpdateSlide(d.Content, logg))
				r.Patch("/{slideId}/active", controllers.AdminSetSlideActive(d.Content, logg))
				r.Delete("/{slideId}", controllers.AdminDeleteSlide(d.Content, logg))
			})

			r.Route("/promotions", func(r chi.Router) {
				r.Get("/", controllers.AdminListPromotions(d.Promotions, logg))
				r.Post("/", controllers.AdminCreatePromotion(d.Promotions, logg))
				r.Put("/{promotionId}", controllers.AdminUpdatePromotion(d.Promotions, logg))
				r.Patch("/{promotionId}/active", controllers.AdminSetPromotionActive(d.Promotions, logg))
				r.Delete("/{promotionId}", controllers.AdminDeletePromotion(d.Promotions, logg))
			})
		})
	})

	return r
}
