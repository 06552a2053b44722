package http

import (
	"net/http"

	"medical-tourism-concierge/internal/delivery/http/handler"
	"medical-tourism-concierge/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Hospital     *handler.HospitalHandler
	Fee          *handler.FeeHandler
	Promotion    *handler.PromotionHandler
	Interpreter  *handler.InterpreterHandler
	Reservation  *handler.ReservationHandler
	Review       *handler.ReviewHandler
	Favorite     *handler.FavoriteHandler
	Notification *handler.NotificationHandler
	AuditLog     *handler.AuditLogHandler
}

type Router struct {
	router                *mux.Router
	handlers              Handlers
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
	loggingMiddleware     *middleware.LoggingMiddleware
	rateLimitMiddleware   *middleware.RateLimitMiddleware
	idempotencyMiddleware *middleware.IdempotencyMiddleware
	interpreterResolver   middleware.InterpreterResolver
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	idempotencyMiddleware *middleware.IdempotencyMiddleware,
	interpreterResolver middleware.InterpreterResolver,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		handlers:              handlers,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
		loggingMiddleware:     loggingMiddleware,
		rateLimitMiddleware:   rateLimitMiddleware,
		idempotencyMiddleware: idempotencyMiddleware,
		interpreterResolver:   interpreterResolver,
	}
}

func (r *Router) Setup() http.Handler {
	h := r.handlers

	r.router.Use(r.loggingMiddleware.Handle, middleware.Metrics)
	r.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", h.Health.Check).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Handle("/register", r.limited(h.Auth.Register)).Methods(http.MethodPost)
	auth.Handle("/login", r.limited(h.Auth.Login)).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Catalog (public)
	api.HandleFunc("/hospitals", h.Hospital.ListHospitals).Methods(http.MethodGet)
	api.HandleFunc("/hospitals/{id}", h.Hospital.GetHospital).Methods(http.MethodGet)
	api.HandleFunc("/hospitals/{id}/reviews", h.Review.ListReviews).Methods(http.MethodGet)
	api.HandleFunc("/fees", h.Fee.ListFees).Methods(http.MethodGet)
	api.HandleFunc("/fees/{id}/quote", h.Fee.QuoteFee).Methods(http.MethodGet)
	api.HandleFunc("/promotions", h.Promotion.ListActivePromotions).Methods(http.MethodGet)
	api.HandleFunc("/interpreters", h.Interpreter.ListInterpreters).Methods(http.MethodGet)

	// Any authenticated user
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate, r.idempotencyMiddleware.Handle)
	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)
	protected.HandleFunc("/auth/me", h.Auth.UpdateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/me/favorites", h.Favorite.ListFavorites).Methods(http.MethodGet)
	protected.HandleFunc("/me/favorites/{hospitalId}", h.Favorite.AddFavorite).Methods(http.MethodPut)
	protected.HandleFunc("/me/favorites/{hospitalId}", h.Favorite.RemoveFavorite).Methods(http.MethodDelete)
	protected.HandleFunc("/hospitals/{id}/reviews", h.Review.CreateReview).Methods(http.MethodPost)
	protected.HandleFunc("/me/notifications", h.Notification.ListNotifications).Methods(http.MethodGet)
	protected.HandleFunc("/me/notifications/stream", h.Notification.Stream).Methods(http.MethodGet)
	protected.HandleFunc("/me/notifications/{id}/read", h.Notification.MarkRead).Methods(http.MethodPost)

	// Patient routes
	patient := api.NewRoute().Subrouter()
	patient.Use(r.authMiddleware.Authenticate, middleware.RequirePatient, r.idempotencyMiddleware.Handle)
	patient.Handle("/reservations", r.limited(h.Reservation.CreateReservation)).Methods(http.MethodPost)
	patient.HandleFunc("/me/reservations", h.Reservation.ListMyReservations).Methods(http.MethodGet)
	patient.HandleFunc("/reservations/{id}/cancel", h.Reservation.CancelReservation).Methods(http.MethodPost)

	// Interpreter workspace (active interpreters only)
	interpreter := api.PathPrefix("/interpreter").Subrouter()
	interpreter.Use(
		r.authMiddleware.Authenticate,
		middleware.RequireInterpreter,
		middleware.RequireActiveInterpreter(r.interpreterResolver),
		r.idempotencyMiddleware.Handle,
	)
	interpreter.HandleFunc("/requests", h.Reservation.ListRequests).Methods(http.MethodGet)
	interpreter.HandleFunc("/reservations", h.Reservation.ListAssigned).Methods(http.MethodGet)
	interpreter.HandleFunc("/customers", h.Reservation.ListCustomers).Methods(http.MethodGet)
	interpreter.HandleFunc("/reservations/{id}/status", h.Reservation.ChangeStatusAsInterpreter).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate, middleware.RequireAdmin, r.idempotencyMiddleware.Handle)

	// User management
	admin.HandleFunc("/users", h.User.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users", h.User.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", h.User.GetUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", h.User.UpdateUser).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", h.User.DeleteUser).Methods(http.MethodDelete)

	// Hospital management
	admin.HandleFunc("/hospitals", h.Hospital.ListAllHospitals).Methods(http.MethodGet)
	admin.HandleFunc("/hospitals", h.Hospital.CreateHospital).Methods(http.MethodPost)
	admin.HandleFunc("/hospitals/{id}", h.Hospital.UpdateHospital).Methods(http.MethodPut)
	admin.HandleFunc("/hospitals/{id}", h.Hospital.DeleteHospital).Methods(http.MethodDelete)

	// Fee management
	admin.HandleFunc("/fees", h.Fee.ListFees).Methods(http.MethodGet)
	admin.HandleFunc("/fees", h.Fee.CreateFee).Methods(http.MethodPost)
	admin.HandleFunc("/fees/{id}", h.Fee.UpdateFee).Methods(http.MethodPut)
	admin.HandleFunc("/fees/{id}", h.Fee.DeleteFee).Methods(http.MethodDelete)

	// Interpreter management
	admin.HandleFunc("/interpreters", h.Interpreter.ListAllInterpreters).Methods(http.MethodGet)
	admin.HandleFunc("/interpreters/{id}", h.Interpreter.GetInterpreter).Methods(http.MethodGet)
	admin.HandleFunc("/interpreters/{id}/status", h.Interpreter.ChangeInterpreterStatus).Methods(http.MethodPost)

	// Promotion management
	admin.HandleFunc("/promotions", h.Promotion.ListPromotions).Methods(http.MethodGet)
	admin.HandleFunc("/promotions", h.Promotion.CreatePromotion).Methods(http.MethodPost)
	admin.HandleFunc("/promotions/{id}", h.Promotion.UpdatePromotion).Methods(http.MethodPut)
	admin.HandleFunc("/promotions/{id}", h.Promotion.DeletePromotion).Methods(http.MethodDelete)

	// Reservation management
	admin.HandleFunc("/reservations", h.Reservation.ListAllReservations).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/{id}", h.Reservation.GetReservation).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/{id}/status", h.Reservation.ChangeReservationStatus).Methods(http.MethodPost)
	admin.HandleFunc("/reservations/{id}/interpreter", h.Reservation.AssignInterpreter).Methods(http.MethodPut)

	// Audit logs
	admin.HandleFunc("/audit-logs", h.AuditLog.ListAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	// CORS wraps the router so preflight requests are answered before route
	// matching rejects the OPTIONS method.
	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) limited(fn http.HandlerFunc) http.Handler {
	return r.rateLimitMiddleware.Handle(fn)
}
