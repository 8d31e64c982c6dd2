package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/familyone/factory-ops/internal/announcement"
	"github.com/familyone/factory-ops/internal/auth"
	"github.com/familyone/factory-ops/internal/checklist"
	"github.com/familyone/factory-ops/internal/leave"
	"github.com/familyone/factory-ops/internal/org"
	"github.com/familyone/factory-ops/internal/production"
	"github.com/familyone/factory-ops/internal/realtime"
	"github.com/familyone/factory-ops/internal/report"
	"github.com/familyone/factory-ops/internal/request"
	"github.com/familyone/factory-ops/internal/schedule"
	"github.com/familyone/factory-ops/internal/suggestion"
	"github.com/familyone/factory-ops/internal/training"
	"github.com/familyone/factory-ops/internal/transport/middleware"
	"github.com/familyone/factory-ops/internal/transport/swagger"
	"github.com/familyone/factory-ops/internal/upload"
)

// Handlers bundles every module handler the router mounts.
type Handlers struct {
	Auth         *auth.Handler
	Org          *org.Handler
	Report       *report.Handler
	Request      *request.Handler
	Leave        *leave.Handler
	Announcement *announcement.Handler
	Checklist    *checklist.Handler
	Suggestion   *suggestion.Handler
	Schedule     *schedule.Handler
	Production   *production.Handler
	Training     *training.Handler
	Upload       *upload.Handler
	Realtime     *realtime.Handler
}

// RegisterAllRoutes wires the API under /api with global middleware, static
// uploads, and the Swagger UI.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, uploadsDir string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// uploaded blobs are served as plain files
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(filepath.Clean(uploadsDir))))
	router.Get("/uploads/*", fileServer.ServeHTTP)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// live event stream; token is optional and checked by the handler
		r.Get("/events", h.Realtime.Events)

		// pre-signup endpoints
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)
		})
		r.Get("/org/teams", h.Org.ListTeams)

		// everything below requires a valid token
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.Authenticate)

			pr.Get("/auth/me", h.Auth.Me)

			pr.Route("/reports", func(rr chi.Router) {
				rr.Post("/", h.Report.Create)
				rr.Get("/", h.Report.List)
				rr.Patch("/{id}/self", h.Report.SelfUpdate)
				rr.Delete("/{id}", h.Report.Delete)
				rr.Get("/{id}/replies", h.Report.ListReplies)
				rr.Post("/{id}/replies", h.Report.CreateReply)

				rr.Group(func(mr chi.Router) {
					mr.Use(h.Auth.RequireCapability(auth.CapModerateReports))
					mr.Patch("/{id}", h.Report.Moderate)
				})
			})

			pr.Route("/requests", func(rr chi.Router) {
				rr.Post("/", h.Request.Create)
				rr.Get("/", h.Request.List)

				rr.Group(func(mr chi.Router) {
					mr.Use(h.Auth.RequireCapability(auth.CapDecideRequests))
					mr.Patch("/{id}/approve", h.Request.Approve)
					mr.Patch("/{id}/reject", h.Request.Reject)
				})
			})

			pr.Route("/leave-requests", func(lr chi.Router) {
				lr.Post("/", h.Leave.Create)
				lr.Get("/", h.Leave.List)
				lr.Delete("/{id}", h.Leave.Delete)
				lr.Post("/{id}/cancel-request", h.Leave.RequestCancel)

				lr.Group(func(mr chi.Router) {
					mr.Use(h.Auth.RequireCapability(auth.CapDecideLeaves))
					mr.Patch("/{id}/approve", h.Leave.Approve)
					mr.Patch("/{id}/reject", h.Leave.Reject)
				})
			})

			pr.Route("/leave", func(lr chi.Router) {
				lr.Get("/summary", h.Leave.Summary)

				lr.Group(func(mr chi.Router) {
					mr.Use(h.Auth.RequireCapability(auth.CapDecideLeaves))
					mr.Post("/allocations", h.Leave.UpsertAllocation)
					mr.Get("/allocations", h.Leave.ListAllocations)
				})
			})

			pr.Route("/announcements", func(ar chi.Router) {
				ar.Get("/", h.Announcement.List)
				ar.Post("/{id}/read", h.Announcement.MarkRead)

				ar.Group(func(mr chi.Router) {
					mr.Use(h.Auth.RequireCapability(auth.CapPublishAnnouncements))
					mr.Post("/", h.Announcement.Create)
					mr.Get("/{id}/unread", h.Announcement.UnreadUsers)
				})
			})

			pr.Route("/checklists", func(cr chi.Router) {
				cr.Get("/templates/{category}", h.Checklist.Templates)
				cr.Post("/submit", h.Checklist.Submit)

				cr.Group(func(mr chi.Router) {
					mr.Use(h.Auth.RequireCapability(auth.CapManageChecklists))
					mr.Get("/submissions", h.Checklist.ListSubmissions)
				})
			})

			pr.Post("/suggestions", h.Suggestion.Create)
			pr.Group(func(mr chi.Router) {
				mr.Use(h.Auth.RequireCapability(auth.CapReviewSuggestions))
				mr.Get("/suggestions", h.Suggestion.List)
			})

			pr.Route("/schedule", func(sr chi.Router) {
				sr.Get("/", h.Schedule.List)

				sr.Group(func(mr chi.Router) {
					mr.Use(h.Auth.RequireCapability(auth.CapManageSchedules))
					mr.Post("/", h.Schedule.Create)
					mr.Patch("/{id}", h.Schedule.Update)
					mr.Delete("/{id}", h.Schedule.Delete)
				})
			})

			pr.Route("/org", func(or chi.Router) {
				or.Use(h.Auth.RequireCapability(auth.CapManageOrg))
				or.Get("/", h.Org.GetDirectory)
				or.Post("/team", h.Org.CreateTeam)
				or.Patch("/team/{id}", h.Org.UpdateTeam)
				or.Delete("/team/{id}", h.Org.DeleteTeam)
			})

			pr.Get("/productions/today", h.Production.Today)
			pr.Group(func(mr chi.Router) {
				mr.Use(h.Auth.RequireCapability(auth.CapRecordProduction))
				mr.Post("/productions", h.Production.Create)
			})

			pr.Route("/trainings", func(tr chi.Router) {
				tr.Get("/", h.Training.List)
				tr.Get("/{id}", h.Training.Get)
				tr.Post("/{id}/complete", h.Training.Complete)

				tr.Group(func(mr chi.Router) {
					mr.Use(h.Auth.RequireCapability(auth.CapManageTrainings))
					mr.Post("/", h.Training.Create)
				})
			})
			pr.Get("/training-completions", h.Training.Completions)

			pr.Post("/uploads/base64", h.Upload.Base64)
			pr.Post("/uploads/stream", h.Upload.Stream)
		})
	})
}
