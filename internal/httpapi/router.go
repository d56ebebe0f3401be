package httpapi

import (
	"net/http"
	"time"

	"pay-my-buddy-go/internal/api"
	"pay-my-buddy-go/internal/identity"
	"pay-my-buddy-go/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries the optional pieces of the HTTP surface
type RouterConfig struct {
	Timeout        time.Duration
	Metrics        metrics.Recorder
	MetricsHandler http.Handler
}

// NewRouter wires every endpoint onto a chi router
func NewRouter(service *api.Service, provider *identity.Provider, cfg RouterConfig) http.Handler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NoOpRecorder{}
	}

	h := &Handlers{service: service, provider: provider}
	r := chi.NewRouter()

	// Add standard middleware for request ids, logging, panic recovery, and timeouts.
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(cfg.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Timeout))

	r.Get("/health", h.Health)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)

	// Group routes that require authentication.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(provider))

		r.Get("/me", h.Me)

		r.Get("/users", h.ListUsers)
		r.Get("/users/{id}", h.GetUser)
		r.Get("/users/{id}/connections", h.GetUserConnections)
		r.Get("/users/{id}/transactions", h.GetUserTransactions)

		r.Get("/connections", h.ListConnections)
		r.Post("/connections", h.CreateConnection)

		r.Get("/transactions", h.ListTransactions)
		r.Get("/transactions/{id}", h.GetTransaction)

		r.Get("/transfers/quote", h.QuoteTransfer)
		r.Post("/transfers", h.Transfer)

		r.Put("/balance/deposit", h.Deposit)
		r.Put("/balance/withdraw", h.Withdraw)

		r.Get("/bank-account", h.GetBankAccount)
		r.Post("/bank-account", h.CreateBankAccount)
		r.Delete("/bank-account", h.DeleteBankAccount)
	})

	return r
}
