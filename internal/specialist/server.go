package specialist

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Responder produces answers for incoming ask calls. Implementations own
// whatever retrieval or generation happens behind the wire contract; the
// server only speaks the protocol.
type Responder interface {
	// Respond answers one question. An error becomes an HTTP 500 for the
	// caller.
	Respond(ctx context.Context, req AskRequest) (AskResponse, error)

	// CheckHealth reports the specialist's current availability.
	CheckHealth(ctx context.Context) HealthResponse
}

// Server exposes one specialist agent over HTTP.
type Server struct {
	responder Responder
	http      *http.Server
}

// NewServer creates a specialist server backed by the given responder.
func NewServer(responder Responder) *Server {
	return &Server{responder: responder}
}

// Start creates an HTTP server, registers routes, and begins serving.
// It returns immediately after starting the server in a background goroutine.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.http = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go s.http.ListenAndServe()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleAsk decodes the question, delegates to the responder, and writes
// the answer.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question must not be empty")
		return
	}

	resp, err := s.responder.Respond(r.Context(), req)
	if err != nil {
		if r.Context().Err() != nil {
			// Caller is gone; nothing useful to write.
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	json.NewEncoder(w).Encode(resp)
}

// handleHealth reports the responder's availability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := s.responder.CheckHealth(r.Context())
	json.NewEncoder(w).Encode(health)
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
