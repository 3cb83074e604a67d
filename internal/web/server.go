// Package web provides the HTTP server and handlers for the data grid.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/datagrid/internal/config"
	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/web/middleware"
)

// Server is the HTTP server for the data grid.
type Server struct {
	service *grid.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *grid.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/tables/{tableKey}", s.handleGridPage)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/tables", s.handleListTables)
		r.Get("/imports/status", s.handleImportStatus)

		r.Route("/tables/{tableKey}", func(r chi.Router) {
			r.Get("/view", s.handleView)
			r.Put("/search", s.handleSetSearch)
			r.Put("/sort", s.handleSetSort)
			r.Put("/page", s.handleSetPage)

			r.Post("/columns/toggle", s.handleToggleColumn)
			r.Put("/columns", s.handleSetColumns)
			r.Post("/columns/reorder", s.handleReorderColumns)

			r.Delete("/rows/{id}", s.handleDeleteRow)

			r.Post("/edits/save-all", s.handleSaveAll)
			r.Post("/edits/cancel-all", s.handleCancelAll)
			r.Post("/edits/{id}", s.handleStartEdit)
			r.Patch("/edits/{id}", s.handleUpdateDraft)
			r.Post("/edits/{id}/save", s.handleSaveEdit)
			r.Delete("/edits/{id}", s.handleCancelEdit)

			r.Post("/import", s.handleImport)
			r.Delete("/import", s.handleClearImport)
			r.Get("/export", s.handleExport)
			r.Get("/template", s.handleTemplate)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        s.cfg.Server.Addr(),
		Handler:     s.router,
		ReadTimeout: s.cfg.Server.ReadTimeout,
		IdleTimeout: s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

