package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/config"
	"github.com/mpilhlt/pdf-tei-editor-sub005/internal/pdftext"
)

// Server is the HTTP API server for the text-localization service.
type Server struct {
	router    chi.Router
	extractor *pdftext.Extractor
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		extractor: &pdftext.Extractor{FallbackPdftotext: cfg.PDFFallbackPdftotext},
		log:       log,
		cfg:       cfg,
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
	r.Get("/", s.handleUsage)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/locate", s.handleLocate)
		r.Post("/api/terms", s.handleTerms)
		r.Post("/api/textlayer", s.handleTextLayer)
		r.Post("/api/locate/pdf", s.handleLocatePDF)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
