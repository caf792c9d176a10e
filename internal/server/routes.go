package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahmethakanbesel/jobtracker-api/internal/application"
	"github.com/ahmethakanbesel/jobtracker-api/internal/dashboard"
	"github.com/ahmethakanbesel/jobtracker-api/internal/user"
)

// NewHandler creates the full HTTP handler with routes and middleware.
// Exported for use in tests (e.g., httptest.NewServer).
func NewHandler(appSvc *application.Service, userSvc *user.Service, loader *dashboard.Loader) http.Handler {
	return newMux(appSvc, userSvc, loader)
}

func newMux(appSvc *application.Service, userSvc *user.Service, loader *dashboard.Loader) http.Handler {
	h := &handler{
		appSvc:  appSvc,
		userSvc: userSvc,
		loader:  loader,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.health)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/v1/statuses", h.listStatuses)

	mux.HandleFunc("GET /api/v1/job-applications", h.listApplications)
	mux.HandleFunc("POST /api/v1/job-applications", h.createApplication)
	mux.HandleFunc("GET /api/v1/job-applications/stats", h.applicationStats)
	mux.HandleFunc("POST /api/v1/job-applications/auto-reject", h.autoReject)
	mux.HandleFunc("GET /api/v1/job-applications/{id}", h.getApplication)
	mux.HandleFunc("PUT /api/v1/job-applications/{id}", h.updateApplication)
	mux.HandleFunc("DELETE /api/v1/job-applications/{id}", h.deleteApplication)

	mux.HandleFunc("GET /api/v1/dashboard", h.dashboard)

	mux.HandleFunc("POST /api/v1/users", h.createUser)
	mux.HandleFunc("GET /api/v1/users/me", h.currentUser)

	mux.HandleFunc("GET /api/v1/admin/users", h.adminListUsers)
	mux.HandleFunc("POST /api/v1/admin/users", h.adminCreateUser)
	mux.HandleFunc("PUT /api/v1/admin/users/{id}", h.adminUpdateUser)
	mux.HandleFunc("DELETE /api/v1/admin/users/{id}", h.adminDeleteUser)

	// Apply middleware stack: recovery -> requestID -> accessLog
	var handler http.Handler = mux
	handler = accessLog(handler)
	handler = requestID(handler)
	handler = recovery(handler)

	return handler
}
