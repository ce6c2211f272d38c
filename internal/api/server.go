package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/documind/internal/config"
	"github.com/dgallion1/documind/internal/document"
	"github.com/dgallion1/documind/internal/llm"
)

// Ingestor converts uploads into persisted embedding records and
// reports how many chunks were stored.
type Ingestor interface {
	IngestPDF(ctx context.Context, path string) (int, error)
	IngestText(ctx context.Context, text string) (int, error)
}

// Answerer generates chat answers, with or without retrieval.
type Answerer interface {
	Answer(ctx context.Context, query string, useRAG bool) (document.Answer, error)
}

// Server is the HTTP API server for documind.
type Server struct {
	router   chi.Router
	ingestor Ingestor
	answerer Answerer
	llm      *llm.Client
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(ingestor Ingestor, answerer Answerer, client *llm.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		ingestor: ingestor,
		answerer: answerer,
		llm:      client,
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
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	// Document and chat endpoints, authenticated when an API key is set.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/upload", s.handleUpload)
		r.Post("/upload/text", s.handleUploadText)
		r.Post("/chat", s.handleChat)
		r.Get("/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"Welcome to the RAG Chatbot API"}`))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
