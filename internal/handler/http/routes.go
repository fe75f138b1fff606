package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-quest-ledger/internal/utils"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer, h.withMetrics)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	router.Get("/api/version", h.getServerVersion)
	router.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/reset-request", h.resetRequest)
	})

	// user routes
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/auth/me", h.me)
		r.Get("/api/progress", h.getProgress)
		r.Post("/api/progress", h.recordAttempt)
		r.Post("/api/payment/submit", h.submitPayment)
		r.Get("/api/payments/user", h.listUserPayments)
	})

	router.Route("/api/admin", func(r chi.Router) {
		r.Use(h.adminOnly, middleware.Compress(5, "application/json"))

		r.Get("/payments/all", h.listAllPayments)
		r.Post("/payments/{id}/approve", h.approvePayment)
		r.Post("/payments/{id}/reject", h.rejectPayment)
		r.Get("/payments/{id}/proof", h.getPaymentProof)

		r.Get("/users", h.listUsers)
		r.Post("/users/{userId}/password", h.setUserPassword)
		r.Post("/users/{userId}/add-trial", h.addTrial)

		r.Get("/reset-requests", h.listResetRequests)
	})

	// unknown methods on known paths look like unknown paths
	router.MethodNotAllowed(notFound)
	router.NotFound(notFound)

	return router
}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
