package server

import (
	"time"

	"github.com/brettbedarf/codecollab/internal/util"
	"github.com/brettbedarf/codecollab/share"
	"github.com/brettbedarf/codecollab/workspace"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the API routes. requestTimeout bounds each request's
// context; zero disables it.
func NewRouter(ws *workspace.Workspace, shares *share.Service, requestTimeout time.Duration) *chi.Mux {
	h := &handlers{ws: ws, shares: shares}
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  util.NewLogLogger("http", util.InfoLevel),
		NoColor: true,
	}))
	router.Use(middleware.Recoverer)
	if requestTimeout > 0 {
		router.Use(middleware.Timeout(requestTimeout))
	}

	router.Get("/health", h.health)

	router.Route("/api/v1", func(api chi.Router) {
		api.Route("/projects", func(projects chi.Router) {
			projects.Get("/", h.listProjects)
			projects.Post("/", h.createProject)

			projects.Route("/{id}", func(p chi.Router) {
				p.Get("/", h.getProject)
				p.Delete("/", h.deleteProject)
				p.Get("/node", h.getNode)
				p.Post("/nodes", h.createNode)
				p.Delete("/nodes", h.deleteNode)
				p.Post("/rename", h.renameNode)
				p.Put("/content", h.updateContent)
				p.Post("/select", h.selectFile)
				p.Post("/toggle", h.toggleFolder)
				p.Post("/collapse", h.collapseAll)
				p.Post("/share", h.shareFile)
			})
		})

		api.Post("/share", h.createSnippet)
		api.Get("/share/{id}", h.getSnippet)
		api.Put("/share/{id}", h.updateSnippet)
	})

	return router
}
