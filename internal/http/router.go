package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/redmonkez12/user-management-api/internal/auth"
	"github.com/redmonkez12/user-management-api/internal/config"
	"github.com/redmonkez12/user-management-api/internal/httputil"
	"github.com/redmonkez12/user-management-api/internal/logging"
	"github.com/redmonkez12/user-management-api/internal/metrics"
	"github.com/redmonkez12/user-management-api/internal/user"
)

const greeting = "Hello to User Management API V1!"

// NewRouter creates and configures the HTTP router. A nil m disables
// request metrics and the /metrics endpoint.
func NewRouter(
	cfg *config.Config,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	authMiddleware *auth.Middleware,
	m *metrics.Metrics,
	logger *logging.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(Recoverer)                     // Panics become JSON 500s, logged with the request id
	r.Use(middleware.Compress(5))        // Compress responses
	if m != nil {
		r.Use(m.Middleware)
	}

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	// Public routes
	r.Get("/", handleRoot)
	r.Get("/health", handleHealth)
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Route("/users", userHandler.Routes)
		})
	})

	return r
}

// handleRoot greets API clients
// @Summary      API greeting
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       / [get]
func handleRoot(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, r, map[string]string{"message": greeting}, http.StatusOK)
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, r, map[string]string{"status": "api is running"}, http.StatusOK)
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.RespondError(w, r, "Route not found", "NOT_FOUND", http.StatusNotFound)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.RespondError(w, r, "Method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
}
