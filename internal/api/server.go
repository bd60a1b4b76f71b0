package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/reportview/internal/config"
	"github.com/dgallion1/reportview/internal/session"
)

// Server is the HTTP API that drives live report pages.
type Server struct {
	router   chi.Router
	sessions *session.Manager
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *session.Manager, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}
		r.Use(BodyLimit(s.cfg.MaxBodyBytes))

		r.Post("/api/sessions", s.handleCreateSession)
		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleRenderPage)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/outline", s.handleOutline)
			r.Get("/state", s.handleState)

			r.Post("/sections/{index}/toggle", s.handleToggleSection)
			r.Post("/sections/{index}/key", s.handleSectionKey)
			r.Post("/collapse-all", s.handleCollapseAll)
			r.Post("/navigate", s.handleNavigate)
			r.Post("/click", s.handleClick)

			r.Post("/tables/{tableID}/rows/{row}/select", s.handleSelectRow)
			r.Post("/tables/{tableID}/header", s.handleResetTable)
			r.Post("/tables/{tableID}/advanced", s.handleToggleAdvanced)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
