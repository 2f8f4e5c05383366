package routes

import (
	"net/http"
	"time"

	"github.com/perfreview/goalflow/internal/app"
	"github.com/perfreview/goalflow/internal/handler"
	"github.com/perfreview/goalflow/internal/middleware"
	"github.com/perfreview/goalflow/internal/model"
	"github.com/perfreview/goalflow/internal/service"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	goal := handler.NewGoalHandler(app.GoalService, app.UserService)
	notification := handler.NewNotificationHandler(app.NotificationService)

	mux := http.NewServeMux()

	// Guards
	auth := middleware.RequireAuth
	reviewer := middleware.RequireRole(model.RoleManager, model.RoleAdmin)
	writeLimit := middleware.RateLimitWrites(60, time.Minute)

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)

	// ============================================================================
	// GOALS
	// ============================================================================

	mux.HandleFunc("GET /api/goals", auth(goal.List))
	mux.HandleFunc("GET /api/goals/{id}", auth(goal.Get))
	mux.HandleFunc("POST /api/goals", auth(writeLimit(goal.Submit)))
	mux.HandleFunc("POST /api/goals/{id}/decision", reviewer(writeLimit(goal.Decide)))
	mux.HandleFunc("POST /api/goals/{id}/complete", auth(writeLimit(goal.Complete)))
	mux.HandleFunc("GET /api/goals/{id}/progress", auth(goal.Progress))
	mux.HandleFunc("POST /api/goals/{id}/progress", auth(writeLimit(goal.RecordProgress)))
	mux.HandleFunc("DELETE /api/goals/{id}", auth(writeLimit(goal.Delete)))

	// ============================================================================
	// NOTIFICATIONS
	// ============================================================================

	mux.HandleFunc("GET /api/notifications", auth(notification.List))
	mux.HandleFunc("GET /api/notifications/unread-count", auth(notification.UnreadCount))
	mux.HandleFunc("POST /api/notifications/{id}/read", auth(notification.MarkRead))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", func(w http.ResponseWriter, r *http.Request) {
		handler.RespondError(w, r, &service.NotFoundError{Entity: "route", ID: r.URL.Path})
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService),
	)

	return handler
}
