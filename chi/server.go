// Package chi provides the HTTP chat interface over the indexed
// statements.
package chi

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jiangzhuo/takaichirag"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

//go:embed static
var staticFS embed.FS

// Server holds the dependencies for the HTTP server.
type Server struct {
	asker      takaichirag.Asker
	logger     *slog.Logger
	router     http.Handler
	httpServer *http.Server
}

// NewServer creates a new Server.
func NewServer(asker takaichirag.Asker, logger *slog.Logger) *Server {
	s := &Server{
		asker:  asker,
		logger: logger,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.handleIndex)
	r.Get("/api/health", s.handleHealth)
	r.Post("/api/chat", s.handleChat)

	return r
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server on addr until it is shut down.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
	}
	s.logger.Info("web server listening", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		s.respondWithError(w, r, takaichirag.Errorf(takaichirag.ENOTFOUND, "chat interface not found"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, healthResponse{Status: "healthy", Version: Version})
}

type chatRequest struct {
	Message   string `json:"message"`
	NumChunks int    `json:"numChunks"`
}

type chatResponse struct {
	Answer  string               `json:"answer"`
	Sources []takaichirag.Source `json:"sources"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, r, takaichirag.Errorf(takaichirag.EINVALID, "invalid request body"))
		return
	}
	if req.Message == "" {
		s.respondWithError(w, r, takaichirag.Errorf(takaichirag.EINVALID, "message required"))
		return
	}

	answer, err := s.asker.Ask(r.Context(), req.Message, takaichirag.AskOptions{NumChunks: req.NumChunks})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []takaichirag.Source{}
	}
	s.respondWithJSON(w, http.StatusOK, chatResponse{Answer: answer.Text, Sources: sources})
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondWithError maps application error codes to HTTP status codes.
func (s *Server) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := takaichirag.ErrorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case takaichirag.EINVALID:
		status = http.StatusBadRequest
	case takaichirag.ENOTFOUND:
		status = http.StatusNotFound
	case takaichirag.EUNAVAILABLE:
		status = http.StatusServiceUnavailable
	}

	if status >= 500 {
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}

	s.respondWithJSON(w, status, errorResponse{Error: takaichirag.ErrorMessage(err)})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fmt.Fprintf(w, `{"error":"encoding failure"}`)
	}
}
