package routes

import (
	"net/http"

	"github.com/whitenlighten/practice-gateway/internal/api/handlers"
	"github.com/whitenlighten/practice-gateway/internal/api/middleware"
	"github.com/whitenlighten/practice-gateway/internal/infrastructure/observability"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	appointmentHandler *handlers.AppointmentHandler
	patientHandler     *handlers.PatientHandler
	userHandler        *handlers.UserHandler
	noteHandler        *handlers.ClinicalNoteHandler
	auditHandler       *handlers.AuditHandler
	dashboardHandler   *handlers.DashboardHandler
	pdfHandler         *handlers.PDFHandler

	authMiddleware  *middleware.AuthMiddleware
	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	appointmentHandler *handlers.AppointmentHandler,
	patientHandler *handlers.PatientHandler,
	userHandler *handlers.UserHandler,
	noteHandler *handlers.ClinicalNoteHandler,
	auditHandler *handlers.AuditHandler,
	dashboardHandler *handlers.DashboardHandler,
	pdfHandler *handlers.PDFHandler,
	authMiddleware *middleware.AuthMiddleware,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		appointmentHandler: appointmentHandler,
		patientHandler:     patientHandler,
		userHandler:        userHandler,
		noteHandler:        noteHandler,
		auditHandler:       auditHandler,
		dashboardHandler:   dashboardHandler,
		pdfHandler:         pdfHandler,

		authMiddleware:  authMiddleware,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {

	// Health check endpoint

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Public booking endpoint, reachable without a session

	r.mux.HandleFunc("POST /api/public/appointments", r.appointmentHandler.PublicBook)

	// Identity and dashboard endpoints

	r.mux.HandleFunc("GET /api/me", r.dashboardHandler.Me)
	r.mux.HandleFunc("GET /api/dashboard", r.dashboardHandler.Overview)

	// Appointment endpoints

	r.mux.HandleFunc("GET /api/appointments", r.appointmentHandler.List)
	r.mux.HandleFunc("POST /api/appointments", r.appointmentHandler.Create)
	r.mux.HandleFunc("GET /api/appointments/{id}", r.appointmentHandler.Get)
	r.mux.HandleFunc("POST /api/appointments/{id}/approve", r.appointmentHandler.Approve)
	r.mux.HandleFunc("POST /api/appointments/{id}/cancel", r.appointmentHandler.Cancel)
	r.mux.HandleFunc("POST /api/appointments/{id}/complete", r.appointmentHandler.Complete)
	r.mux.HandleFunc("PATCH /api/appointments/{id}/assign", r.appointmentHandler.Assign)

	// Patient endpoints

	r.mux.HandleFunc("GET /api/patients", r.patientHandler.List)
	r.mux.HandleFunc("POST /api/patients", r.patientHandler.Create)
	r.mux.HandleFunc("GET /api/patients/archived", r.patientHandler.ListArchived)
	r.mux.HandleFunc("GET /api/patients/number/{patientId}", r.patientHandler.GetByPatientID)
	r.mux.HandleFunc("GET /api/patients/{id}", r.patientHandler.Get)
	r.mux.HandleFunc("PATCH /api/patients/{id}", r.patientHandler.Update)
	r.mux.HandleFunc("POST /api/patients/{patientId}/approve", r.patientHandler.Approve)
	r.mux.HandleFunc("POST /api/patients/{id}/archive", r.patientHandler.Archive)
	r.mux.HandleFunc("POST /api/patients/{id}/unarchive", r.patientHandler.Unarchive)
	r.mux.HandleFunc("GET /api/patients/{id}/appointments", r.patientHandler.AppointmentHistory)
	r.mux.HandleFunc("GET /api/patients/{patientId}/pdf", r.pdfHandler.PatientDetails)

	// Clinical note endpoints

	r.mux.HandleFunc("GET /api/patients/{patientId}/notes", r.noteHandler.List)
	r.mux.HandleFunc("POST /api/patients/{patientId}/notes", r.noteHandler.Create)
	r.mux.HandleFunc("GET /api/patients/{patientId}/notes/{noteId}", r.noteHandler.Get)
	r.mux.HandleFunc("PATCH /api/patients/{patientId}/notes/{noteId}", r.noteHandler.Update)

	// Staff account endpoints

	r.mux.HandleFunc("GET /api/users", r.userHandler.List)
	r.mux.HandleFunc("POST /api/users", r.userHandler.Create)
	r.mux.HandleFunc("GET /api/users/{id}", r.userHandler.Get)
	r.mux.HandleFunc("PATCH /api/users/{id}", r.userHandler.UpdateInfo)
	r.mux.HandleFunc("PATCH /api/users/{id}/role", r.userHandler.UpdateRole)
	r.mux.HandleFunc("POST /api/users/{id}/activate", r.userHandler.Reactivate)
	r.mux.HandleFunc("DELETE /api/users/{id}", r.userHandler.Delete)

	// Audit feed endpoint

	r.mux.HandleFunc("GET /api/audit", r.auditHandler.List)

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Cache sits inside auth so a cache HIT is only ever served to a request
	// that passed token validation on this round trip.
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	if r.authMiddleware != nil {
		handler = r.authMiddleware.Handler(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
