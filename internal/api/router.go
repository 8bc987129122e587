package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/good-yellow-bee/collabhub/internal/api/middleware"
)

// setupRouter creates and configures the chi router with all routes.
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(s.config.Verbose))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.PrometheusMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		JSONError(w, ErrNotFound)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(s.limiter))

		r.Route("/shell", func(r chi.Router) {
			r.Get("/", s.getShell)
			r.Post("/navigate", s.navigate)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.listProjects)
			r.Post("/", s.createProject)
			r.Get("/selected", s.selectedProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getProject)
				r.Patch("/", s.updateProject)
				r.Post("/select", s.selectProject)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.taskBoard)
			r.Post("/", s.createTask)
			r.Get("/selected", s.selectedTask)
			r.Delete("/selected", s.clearSelectedTask)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getTask)
				r.Patch("/", s.updateTask)
				r.Post("/select", s.selectTask)
				r.Put("/status", s.setTaskStatus)
				r.Post("/subtasks", s.addSubtask)
				r.Post("/subtasks/{subtaskID}/toggle", s.toggleSubtask)
				r.Post("/comments", s.addComment)
			})
		})

		r.Route("/files", func(r chi.Router) {
			r.Get("/", s.listFiles)
			r.Post("/", s.createFile)
			r.Get("/types", s.fileTypes)
			r.Route("/uploads", func(r chi.Router) {
				r.Get("/", s.listUploads)
				r.Post("/", s.startUpload)
				r.Get("/{uploadID}", s.getUpload)
				r.Delete("/{uploadID}", s.cancelUploadByID)
			})
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.previewFile)
				r.Delete("/", s.deleteFile)
			})
		})

		r.Get("/timeline", s.timeline)
		r.Route("/milestones", func(r chi.Router) {
			r.Get("/", s.listMilestones)
			r.Post("/", s.createMilestone)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Get("/messages", s.listMessages)
			r.Post("/messages", s.sendMessage)
			r.Get("/typing", s.typing)
			r.Get("/assistant", s.assistant)
			r.Post("/assistant", s.askAssistant)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.listNotifications)
			r.Get("/summary", s.notificationSummary)
			r.Post("/read-all", s.markAllRead)
			r.Post("/{id}/read", s.markRead)
			r.Delete("/{id}", s.deleteNotification)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", s.getProfile)
			r.Patch("/", s.updateProfile)
			r.Put("/avatar", s.setAvatar)
			r.Put("/preferences", s.setPreferences)
			r.Put("/password", s.changePassword)
		})
	})

	r.Get("/health", s.healthHandler.Health)
	r.Get("/health/live", s.healthHandler.Live)
	r.Get("/health/ready", s.healthHandler.Ready)

	return r
}
