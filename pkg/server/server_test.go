package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/repcoach/pkg/blocks"
	"github.com/go-go-golems/repcoach/pkg/chat"
	"github.com/go-go-golems/repcoach/pkg/coach"
	"github.com/go-go-golems/repcoach/pkg/orchestrate"
	"github.com/go-go-golems/repcoach/pkg/tools"
	"github.com/go-go-golems/repcoach/pkg/undo"
)

func testServer(t *testing.T) (*Server, *coach.MemoryStore, *undo.Ledger) {
	t.Helper()
	store := coach.NewMemoryStore()
	ledger := undo.NewLedger()
	reg := tools.NewInMemoryRegistry()
	require.NoError(t, coach.RegisterAll(reg, coach.Deps{
		Store:  store,
		Biller: coach.NewMemoryBiller(),
		Undo:   ledger,
	}))
	orch, err := orchestrate.New(orchestrate.WithRegistry(reg))
	require.NoError(t, err)
	return New(orch, ledger), store, ledger
}

func turnBody(t *testing.T, text string) *bytes.Buffer {
	t.Helper()
	req := chat.TurnRequest{
		Messages:    []chat.Message{{Role: chat.RoleUser, Content: text}},
		Preferences: chat.Preferences{Unit: "lbs", SoundEnabled: true},
	}
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewBuffer(raw)
}

func TestHandleTurn(t *testing.T) {
	srv, _, _ := testServer(t)

	r := httptest.NewRequest(http.MethodPost, "/api/turn", turnBody(t, "10 pushups"))
	r.Header.Set("X-User-ID", "u1")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp chat.TurnResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Logged 10 Push-ups", resp.AssistantText)
	assert.True(t, resp.Trace.FallbackUsed)
	assert.Equal(t, []string{"log_set"}, resp.Trace.ToolsUsed)
	require.NotEmpty(t, resp.Blocks)
	assert.Equal(t, blocks.KindStatus, resp.Blocks[0].Kind())
}

func TestHandleTurn_ValidationError(t *testing.T) {
	srv, _, _ := testServer(t)

	body := `{"messages":[],"preferences":{"unit":"lbs"}}`
	r := httptest.NewRequest(http.MethodPost, "/api/turn", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var eb struct {
		Error      string `json:"error"`
		Constraint string `json:"constraint"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &eb))
	assert.Equal(t, "message_count", eb.Constraint)
}

func TestHandleTurn_MalformedBody(t *testing.T) {
	srv, _, _ := testServer(t)

	r := httptest.NewRequest(http.MethodPost, "/api/turn", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleTurnStream(t *testing.T) {
	srv, _, _ := testServer(t)

	r := httptest.NewRequest(http.MethodPost, "/api/turn/stream", turnBody(t, "10 pushups"))
	r.Header.Set("X-User-ID", "u1")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	// The canonical single-tool sequence, in order.
	iStart := strings.Index(body, "event: start")
	iToolStart := strings.Index(body, "event: tool_start")
	iToolResult := strings.Index(body, "event: tool_result")
	iFinal := strings.Index(body, "event: final")
	require.True(t, iStart >= 0 && iToolStart > iStart && iToolResult > iToolStart && iFinal > iToolResult, body)
	assert.NotContains(t, body, "event: error")
}

func TestHandleTurnStream_NDJSON(t *testing.T) {
	srv, _, _ := testServer(t)

	r := httptest.NewRequest(http.MethodPost, "/api/turn/stream", turnBody(t, "10 pushups"))
	r.Header.Set("X-User-ID", "u1")
	r.Header.Set("Accept", "application/x-ndjson")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"type":"start"`)
	assert.Contains(t, lines[1], `"type":"tool_start"`)
	assert.Contains(t, lines[2], `"type":"tool_result"`)
	assert.Contains(t, lines[3], `"type":"final"`)
}

func TestHandleTurnStream_InvalidRequestIs400(t *testing.T) {
	srv, _, _ := testServer(t)

	body := `{"messages":[{"role":"user","content":"hi"}],"preferences":{"unit":"stone"}}`
	r := httptest.NewRequest(http.MethodPost, "/api/turn/stream", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUndo(t *testing.T) {
	srv, store, ledger := testServer(t)

	// Log a set through the engine so an undo entry exists.
	r := httptest.NewRequest(http.MethodPost, "/api/turn", turnBody(t, "10 pushups"))
	r.Header.Set("X-User-ID", "u1")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var resp chat.TurnResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	var actionID string
	for _, b := range resp.Blocks {
		if ub, ok := b.(*blocks.Undo); ok {
			actionID = ub.ActionID
		}
	}
	require.NotEmpty(t, actionID)
	require.Equal(t, 1, ledger.Len())

	r = httptest.NewRequest(http.MethodPost, "/api/undo/"+actionID, nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	// The logged set is gone again.
	sets, err := store.QuerySetsByDateRange(context.Background(), "u1",
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, sets)

	// Consumed: replaying the same action is a 404.
	r = httptest.NewRequest(http.MethodPost, "/api/undo/"+actionID, nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleUndo_Unknown(t *testing.T) {
	srv, _, _ := testServer(t)

	r := httptest.NewRequest(http.MethodPost, "/api/undo/not-an-id", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _, _ := testServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/turn", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthz(t *testing.T) {
	srv, _, _ := testServer(t)

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}
