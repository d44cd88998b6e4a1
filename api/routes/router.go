package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/EmilyGongVL/ecommerce-v1/api/controllers"
	"github.com/EmilyGongVL/ecommerce-v1/api/middleware"
	"github.com/EmilyGongVL/ecommerce-v1/internal/auth"
	"github.com/EmilyGongVL/ecommerce-v1/internal/orders"
	"github.com/EmilyGongVL/ecommerce-v1/internal/products"
	"github.com/EmilyGongVL/ecommerce-v1/internal/stores"
	"github.com/EmilyGongVL/ecommerce-v1/internal/users"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/config"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/db"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/enums"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/logger"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/metrics"
	"github.com/EmilyGongVL/ecommerce-v1/pkg/redis"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redis.Client
	Registry *prometheus.Registry
	Metrics  *metrics.HTTPMetrics

	AuthService    auth.Service
	UserVerifier   middleware.UserVerifier
	StoreService   stores.Service
	ProductService products.Service
	OrderService   orders.Service
	UserService    users.Service
}

// NewRouter assembles the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	requireAuth := middleware.Auth(cfg.JWT, deps.UserVerifier, logg)
	requireMerchant := middleware.RequireAnyRole(logg, string(enums.UserRoleAdmin), string(enums.UserRoleSeller))
	requireAdmin := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	r.Route("/api", func(r chi.Router) {
		if deps.Redis != nil {
			r.Use(middleware.RateLimit(deps.Redis, cfg.RateLimit.Requests, cfg.RateLimit.Window, logg))
		}

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.StoreList(deps.StoreService, logg))
			r.Get("/top-rated", controllers.StoreTopRated(deps.StoreService, logg))
			r.Get("/new", controllers.StoreNew(deps.StoreService, logg))
			r.Get("/upcoming", controllers.StoreUpcoming(deps.StoreService, logg))
			r.Get("/starred", controllers.StoreStarred(deps.StoreService, logg))
			r.Get("/{id}", controllers.StoreGet(deps.StoreService, logg))
			r.Get("/{id}/products", controllers.StoreProducts(deps.ProductService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", controllers.StoreCreate(deps.StoreService, logg))
				r.Group(func(r chi.Router) {
					r.Use(requireMerchant)
					r.Patch("/{id}", controllers.StoreUpdate(deps.StoreService, logg))
					r.Delete("/{id}", controllers.StoreDelete(deps.StoreService, logg))
				})
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.ProductService, logg))
			r.Get("/{id}", controllers.ProductGet(deps.ProductService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireMerchant)
				r.Post("/", controllers.ProductCreate(deps.ProductService, logg))
				r.Patch("/{id}", controllers.ProductUpdate(deps.ProductService, logg))
				r.Delete("/{id}", controllers.ProductDelete(deps.ProductService, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.OrderList(deps.OrderService, logg))
			r.Post("/", controllers.OrderCreate(deps.OrderService, logg))
			r.Get("/{id}", controllers.OrderGet(deps.OrderService, logg))
			r.Patch("/{id}/status", controllers.OrderUpdateStatus(deps.OrderService, logg))
			r.Delete("/{id}", controllers.OrderDelete(deps.OrderService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/signup", controllers.Signup(deps.AuthService, logg))
			r.Post("/login", controllers.Login(deps.AuthService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", controllers.UserMe(deps.UserService, logg))
				r.Patch("/me", controllers.UserUpdateMe(deps.UserService, logg))
				r.Patch("/me/password", controllers.ChangePassword(deps.AuthService, logg))
				r.Route("/me/wishlist", func(r chi.Router) {
					r.Get("/", controllers.WishlistGet(deps.UserService, logg))
					r.Post("/", controllers.WishlistAdd(deps.UserService, logg))
					r.Delete("/{productId}", controllers.WishlistRemove(deps.UserService, logg))
				})
				r.With(requireAdmin).Get("/", controllers.UserList(deps.UserService, logg))
			})
		})
	})

	return r
}
