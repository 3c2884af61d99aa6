// Package httpapi maps the HTTP surface described in the service's
// interface contract onto the Facade: URL paths and JSON bodies in,
// status codes and JSON (or plain text, for errors) bodies out. It owns
// no business logic itself — every decision beyond request parsing and
// status-code mapping happens in facade.Facade.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/skyscape-labs/queueservice/facade"
)

// Server wires the Facade to a stdlib ServeMux using Go's method-pattern
// routing, matching the teacher's controllers/health.go style of
// registering handlers directly against http.ServeMux rather than
// through an external router.
type Server struct {
	facade    *facade.Facade
	log       *slog.Logger
	mux       *http.ServeMux
	startedAt time.Time
}

// NewServer builds a Server wrapping f and registers its routes.
func NewServer(f *facade.Facade, log *slog.Logger) *Server {
	s := &Server{facade: f, log: log, mux: http.NewServeMux(), startedAt: time.Now()}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /queue", s.handleListQueues)
	s.mux.HandleFunc("POST /queue", s.handleCreateQueue)
	s.mux.HandleFunc("DELETE /queue/admin/clear", s.handleClearAll)
	s.mux.HandleFunc("DELETE /queue/{id}", s.handleRemoveQueue)
	s.mux.HandleFunc("POST /queue/{id}/task", s.handleEnqueueTask)
	s.mux.HandleFunc("GET /queue/{id}/task", s.handleDequeueTask)
	s.mux.HandleFunc("POST /queue/{id}/result", s.handleSubmitResult)
	s.mux.HandleFunc("GET /queue/{id}/result/{taskId}", s.handleGetResult)
	s.mux.HandleFunc("GET /queue/{id}/status", s.handleQueueStatus)
}

// version is overridable at build time with -ldflags "-X ...version=...".
var version = "dev"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "healthy",
		"version":    version,
		"uptimeSecs": int64(time.Since(s.startedAt).Seconds()),
	})
}

// pathUUID parses an {id}-style path value, reporting invalid-argument
// on malformed input (S7: GET /queue/not-a-uuid/task -> 400).
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, facade.ErrInvalidArgument
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps a Facade error kind to a status code and writes the
// error's message as a plain-text 4xx body, per the service's error
// handling contract: 2xx bodies are JSON, 4xx bodies are plain text.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, facade.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, facade.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, facade.ErrPreconditionFailed):
		status = http.StatusBadRequest
	}
	if status >= 500 {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.log.Warn("client fault", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}
