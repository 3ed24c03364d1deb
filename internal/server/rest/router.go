package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/levelup/internal/logging"
	"github.com/dmitrijs2005/levelup/internal/server/metrics"
	"github.com/go-chi/chi/v5"
)

// Handlers groups the services the HTTP API talks to.
type Handlers struct {
	Users     UserService
	Catalog   CatalogService
	Carts     CartService
	Favorites FavoriteService
	Orders    OrderService
	Lifecycle LifecycleService
	Images    ImageService
	DB        Pinger

	logger logging.Logger
}

type RouterConfig struct {
	JWTSecret      []byte
	RequestTimeout time.Duration
}

// NewRouter mounts every route under /api plus /metrics and /healthz.
func NewRouter(h *Handlers, m *metrics.Metrics, l logging.Logger, cfg RouterConfig) http.Handler {
	h.logger = l
	admin := requireAdmin(cfg.JWTSecret, l)

	r := chi.NewRouter()
	r.Use(requestID(l), recoverer(l), requestLogger(l), m.Middleware, timeout(cfg.RequestTimeout))

	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/healthz", h.healthz)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Post("/", h.createUser)
			r.Get("/active", h.listActiveUsers)
			r.Get("/inactive", h.listInactiveUsers)
			r.Get("/email/{email}", h.getUserByEmail)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getUser)
				r.Put("/", h.updateUser)
				r.Delete("/", h.deleteUser)
				r.With(admin).Put("/deactivate", h.deactivateUser)
				r.With(admin).Put("/activate", h.activateUser)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Get("/active", h.listActiveProducts)
			r.Get("/discontinued", h.listDiscontinuedProducts)
			r.Get("/category/{categoryId}", h.listProductsByCategory)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getProduct)
				r.Put("/", h.updateProduct)
				r.Delete("/", h.deleteProduct)
				r.Get("/tags", h.listProductTags)
				r.Get("/images", h.listProductImages)
				r.Post("/image-upload", h.presignImageUpload)
				r.Get("/image-url", h.presignImageDownload)
				r.With(admin).Put("/discontinue", h.discontinueProduct)
				r.With(admin).Put("/reactivate", h.reactivateProduct)
			})
		})

		r.Get("/categories", h.listCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", h.addToCart)
			r.Get("/{userId}", h.listCart)
			r.Delete("/{userId}", h.clearCart)
			r.Put("/{userId}/{productId}", h.updateCartQuantity)
			r.Delete("/{userId}/{productId}", h.removeCartLine)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", h.listFavorites)
			r.Post("/", h.addFavorite)
			r.Get("/user/{userId}", h.listFavoritesByUser)
			r.Get("/product/{productId}", h.listFavoritesByProduct)
			r.Delete("/{userId}/{productId}", h.removeFavorite)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Post("/", h.placeOrder)
			r.Get("/user/{userId}", h.listOrdersByUser)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getOrder)
				r.Put("/", h.updateOrder)
				r.Delete("/", h.deleteOrder)
				r.Get("/items", h.listOrderItems)
			})
		})
	})

	return r
}

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.PingContext(r.Context()); err != nil {
			logging.FromContext(r.Context(), h.logger).Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auditAdmin records which admin performed a lifecycle transition.
func (h *Handlers) auditAdmin(r *http.Request, action string, targetID int64) {
	args := []any{"action", action, "target_id", targetID}
	if c, ok := ClaimsFromContext(r.Context()); ok {
		args = append(args, "admin_id", c.UserID)
	}
	logging.FromContext(r.Context(), h.logger).Info(r.Context(), "admin action", args...)
}
