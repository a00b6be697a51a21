// Package server exposes the turn engine over HTTP: a buffered turn
// endpoint, a streaming variant (SSE, or NDJSON when the Accept header
// asks for it), and undo replay. Auth is out of scope; the user
// identity arrives pre-resolved in a header.
package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/repcoach/pkg/chat"
	"github.com/go-go-golems/repcoach/pkg/events"
	"github.com/go-go-golems/repcoach/pkg/orchestrate"
	"github.com/go-go-golems/repcoach/pkg/undo"
)

const userHeader = "X-User-ID"

type Server struct {
	orch   *orchestrate.Orchestrator
	ledger *undo.Ledger
	mux    *http.ServeMux
}

func New(orch *orchestrate.Orchestrator, ledger *undo.Ledger) *Server {
	s := &Server{
		orch:   orch,
		ledger: ledger,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("/api/turn", s.handleTurn)
	s.mux.HandleFunc("/api/turn/stream", s.handleTurnStream)
	s.mux.HandleFunc("/api/undo/", s.handleUndo)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func userID(r *http.Request) string {
	if id := r.Header.Get(userHeader); id != "" {
		return id
	}
	return "demo"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("response encode failed")
	}
}

type errorBody struct {
	Error      string `json:"error"`
	Constraint string `json:"constraint,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	var verr *chat.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:      verr.Message,
			Constraint: string(verr.Constraint),
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "turn failed"})
}

func decodeTurnRequest(r *http.Request) (*chat.TurnRequest, error) {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	req := &chat.TurnRequest{}
	if err := dec.Decode(req); err != nil {
		return nil, &chat.ValidationError{
			Constraint: chat.ConstraintMessageContent,
			Message:    "request body is not a valid turn request",
		}
	}
	return req, nil
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	req, err := decodeTurnRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.orch.RunTurn(r.Context(), userID(r), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTurnStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	req, err := decodeTurnRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	// Validate before committing to the stream so boundary rejections
	// still get a structured 400 instead of an event.
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	flusher, _ := w.(http.Flusher)
	var sink events.Sink
	if strings.Contains(r.Header.Get("Accept"), "application/x-ndjson") {
		w.Header().Set("Content-Type", "application/x-ndjson")
		sink = events.NewNDJSONSink(w, flusher)
	} else {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		sink = events.NewSSESink(w, flusher)
	}
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := events.WithSinks(r.Context(), sink)

	// The terminal final/error event already reached the sink; the
	// return values only matter for logging here.
	if _, err := s.orch.RunTurn(ctx, userID(r), req); err != nil {
		log.Warn().Err(err).Msg("streamed turn failed")
	}
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.ledger == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "undo is not enabled"})
		return
	}
	actionID := strings.TrimPrefix(r.URL.Path, "/api/undo/")
	if actionID == "" || strings.Contains(actionID, "/") {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown undo action"})
		return
	}

	err := s.ledger.Restore(r.Context(), actionID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"restored": true})
	case errors.Is(err, undo.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "unknown undo action"})
	case errors.Is(err, undo.ErrExpired):
		writeJSON(w, http.StatusGone, errorBody{Error: "undo window has passed"})
	default:
		log.Warn().Err(err).Str("action_id", actionID).Msg("undo restore failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "restore failed"})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
