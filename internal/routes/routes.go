package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdragonx/sgcn-sgc-prototipo/internal/authz"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/handlers"
	"github.com/jdragonx/sgcn-sgc-prototipo/internal/models"
)

// NewRouter sets up the API routes
func NewRouter(auth *handlers.AuthHandler, notif *handlers.NotificationHandler, alert *handlers.AlertHandler) *mux.Router {
	router := mux.NewRouter()

	// Health check and metrics
	router.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Public auth endpoints
	router.HandleFunc("/api/signup", auth.SignUp).Methods(http.MethodPost)
	router.HandleFunc("/api/login", auth.Login).Methods(http.MethodPost)

	// Authenticated notification endpoints
	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.JWTMiddleware)

	api.HandleFunc("/notifications", notif.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/stats", notif.Stats).Methods(http.MethodGet)
	api.HandleFunc("/notifications/mark-all-read", notif.MarkAllRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/test", notif.SendTest).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{notificationID}/read", notif.MarkRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{notificationID}", notif.Delete).Methods(http.MethodDelete)

	// Alert fan-out, reserved for the domain record routers
	api.Handle("/alerts",
		authz.RequireRole(models.RoleAdmin, models.RoleGestor)(http.HandlerFunc(alert.Publish)),
	).Methods(http.MethodPost)

	return router
}
