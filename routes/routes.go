package routes

import (
	"github.com/gorilla/mux"

	"github.com/LenoreWoW/Themis-sub003/handlers"
	"github.com/LenoreWoW/Themis-sub003/middleware"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

const (
	PathAPI    = "/api"
	PathHealth = "/health"
)

func RegisterRoutes(r *mux.Router) {
	// ====================
	// HEALTH CHECK (Public)
	// ====================
	r.HandleFunc(PathHealth, handlers.HealthCheck).Methods(MethodsGetOnly...)

	// ====================
	// AUTHENTICATION ROUTES (Public - No auth required)
	// ====================
	r.HandleFunc("/api/auth/login", handlers.Login).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/logout", handlers.Logout).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/validate", handlers.ValidateToken).Methods(MethodsGetOnly...)

	// ====================
	// PROTECTED API ROUTES (Require authentication)
	// ====================
	apiRouter := r.PathPrefix(PathAPI).Subrouter()
	apiRouter.Use(middleware.AuthMiddleware)

	// Live updates (token-authenticated inside the handler)
	apiRouter.HandleFunc("/ws", handlers.ServeWS).Methods(MethodsGetOnly...)

	// ====================
	// USERS
	// ====================
	apiRouter.HandleFunc("/users", handlers.ListUsers).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/user/me", handlers.GetCurrentUser).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/users/{id}", handlers.GetUser).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/users/{id}", handlers.UpdateUser).Methods(MethodsPutOnly...)

	// ====================
	// DEPARTMENTS
	// ====================
	apiRouter.HandleFunc("/departments", handlers.ListDepartments).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/departments", handlers.CreateDepartment).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/departments/{id}", handlers.GetDepartment).Methods(MethodsGetOnly...)

	// ====================
	// PROJECTS
	// ====================
	apiRouter.HandleFunc("/projects", handlers.ListProjects).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/projects", handlers.CreateProject).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/projects/{id}", handlers.GetProject).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/projects/{id}", handlers.UpdateProject).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/projects/{id}/transition", handlers.TransitionProject).Methods(MethodsPostOnly...)

	// ====================
	// CHANGE REQUESTS
	// ====================
	apiRouter.HandleFunc("/change-requests", handlers.ListChangeRequests).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/change-requests", handlers.CreateChangeRequest).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/change-requests/{id}", handlers.GetChangeRequest).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/change-requests/{id}/transition", handlers.TransitionChangeRequest).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/change-requests/{id}/withdraw", handlers.WithdrawChangeRequest).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/change-requests/{id}/apply", handlers.ApplyChangeRequest).Methods(MethodsPostOnly...)

	// ====================
	// ASSIGNMENTS
	// ====================
	apiRouter.HandleFunc("/assignments", handlers.ListAssignments).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/assignments", handlers.CreateAssignment).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/assignments/{id}/status", handlers.UpdateAssignmentStatus).Methods(MethodsPutOnly...)

	// ====================
	// MEETINGS
	// ====================
	apiRouter.HandleFunc("/meetings", handlers.ListMeetings).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/meetings", handlers.CreateMeeting).Methods(MethodsPostOnly...)

	// ====================
	// WEEKLY UPDATES
	// ====================
	apiRouter.HandleFunc("/weekly-updates", handlers.ListWeeklyUpdates).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/weekly-updates", handlers.CreateWeeklyUpdate).Methods(MethodsPostOnly...)

	// ====================
	// NOTIFICATIONS
	// ====================
	apiRouter.HandleFunc("/notifications", handlers.ListNotifications).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/notifications/read-all", handlers.MarkAllNotificationsRead).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/notifications/{id}/read", handlers.MarkNotificationRead).Methods(MethodsPostOnly...)

	// ====================
	// AUDIT
	// ====================
	apiRouter.HandleFunc("/audit", handlers.ListAuditLogs).Methods(MethodsGetOnly...)
}
