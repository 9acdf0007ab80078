package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router of the public API.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, h.withMetrics)

	// promhttp negotiates its own compression
	router.Method("GET", "/metrics", h.metrics.Handler())

	router.Group(func(api chi.Router) {
		api.Use(withGZip)
		if h.requestTimeout > 0 {
			api.Use(middleware.Timeout(h.requestTimeout))
		}

		// routes without authorization
		api.Post("/api/user/register", h.register)
		api.Post("/api/user/login", h.login)
		api.Post("/api/admin/login", h.adminLogin)
		api.Get("/api/version", h.getServerVersion)

		api.Group(func(user chi.Router) {
			user.Use(h.auth)

			user.Route("/api/recordings", func(rec chi.Router) {
				rec.Post("/", h.uploadRecording)
				rec.Get("/", h.listRecordings)
				rec.Get("/progress", h.progress)
				rec.Get("/export.csv", h.ownCSV)
				rec.Get("/export.zip", h.ownZip)
				rec.Get("/{id}/audio", h.recordingAudio)
			})
		})

		api.Group(func(admin chi.Router) {
			admin.Use(h.auth, h.adminOnly)

			admin.Get("/api/admin/recordings", h.adminRecordings)
			admin.Delete("/api/admin/recordings", h.adminDeleteAll)
			admin.Get("/api/admin/owners", h.adminOwners)
			admin.Get("/api/admin/users", h.adminUsers)
			admin.Get("/api/admin/export.csv", h.adminCSV)
			admin.Get("/api/admin/export.zip", h.adminZip)
			admin.Post("/api/admin/export/publish", h.adminPublish)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
