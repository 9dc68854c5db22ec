package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	custommiddleware "github.com/mmeshcher/meshdemo-system/internal/middleware"
)

// Имена сервисов меша в том виде, в каком они фигурируют в /health и сводках.
const (
	ServiceUser         = "user-service"
	ServiceProduct      = "product-service"
	ServiceOrder        = "order-service"
	ServiceNotification = "notification-service"
	ServiceAnalytics    = "analytics-service"
	ServiceDashboard    = "dashboard"
)

func newRouter(logger *zap.Logger, service string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(logger))

	r.Get("/health", healthHandler(service))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}

// NewUserRouter настраивает маршруты user-сервиса.
func NewUserRouter(h *UserHandler, logger *zap.Logger) *chi.Mux {
	r := newRouter(logger, ServiceUser)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.GetUsers)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})

	return r
}

// NewProductRouter настраивает маршруты product-сервиса.
func NewProductRouter(h *ProductHandler, logger *zap.Logger) *chi.Mux {
	r := newRouter(logger, ServiceProduct)

	r.Route("/api/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Get("/", h.GetProducts)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})

	return r
}

// NewOrderRouter настраивает маршруты order-сервиса.
func NewOrderRouter(h *OrderHandler, logger *zap.Logger) *chi.Mux {
	r := newRouter(logger, ServiceOrder)

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.GetOrders)
		r.Get("/{id}", h.GetOrder)
		r.Get("/user/{userId}", h.GetOrdersByUser)
		r.Delete("/{id}", h.DeleteOrder)
	})

	return r
}

// NewNotificationRouter настраивает маршруты notification-сервиса.
func NewNotificationRouter(h *NotificationHandler, logger *zap.Logger) *chi.Mux {
	r := newRouter(logger, ServiceNotification)

	r.Route("/api/notifications", func(r chi.Router) {
		r.Post("/send", h.SendNotification)
		r.Get("/", h.GetNotifications)
		r.Get("/user/{userId}", h.GetNotificationsByUser)
		r.Patch("/{id}/read", h.MarkRead)
		r.Delete("/{id}", h.DeleteNotification)
	})

	return r
}

// NewAnalyticsRouter настраивает маршруты analytics-сервиса.
func NewAnalyticsRouter(h *AnalyticsHandler, logger *zap.Logger) *chi.Mux {
	r := newRouter(logger, ServiceAnalytics)

	r.Route("/api/analytics", func(r chi.Router) {
		r.Get("/summary", h.GetSummary)
		r.Get("/users", h.GetUserStats)
		r.Get("/products", h.GetProductStats)
		r.Get("/orders", h.GetOrderStats)
	})

	return r
}

// NewDashboardRouter настраивает маршруты панели наблюдения.
func NewDashboardRouter(h *DashboardHandler, logger *zap.Logger) *chi.Mux {
	r := newRouter(logger, ServiceDashboard)

	r.Get("/api/health", h.GetHealth)
	r.Get("/api/services", h.GetServices)

	return r
}
