package events

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/repcoach/pkg/blocks"
	"github.com/go-go-golems/repcoach/pkg/chat"
)

type capturingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *capturingSink) PublishEvent(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *capturingSink) types() []Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Type, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type())
	}
	return out
}

func finalResponse() *chat.TurnResponse {
	return &chat.TurnResponse{
		AssistantText: "done",
		Blocks:        blocks.List{},
		Trace:         chat.Trace{ToolsUsed: []string{}, Model: "test-model"},
	}
}

func TestEmitter_TwoToolSequence(t *testing.T) {
	sink := &capturingSink{}
	em := NewEmitter("turn-1", sink)

	em.Start("test-model")
	em.ToolStart("log_set")
	em.ToolResult("log_set", blocks.List{blocks.NewStatus(blocks.ToneSuccess, "ok", "")})
	em.ToolStart("get_today_summary")
	em.ToolResult("get_today_summary", blocks.List{})
	em.Final(finalResponse())

	require.Equal(t, []Type{
		TypeStart,
		TypeToolStart, TypeToolResult,
		TypeToolStart, TypeToolResult,
		TypeFinal,
	}, sink.types())
	assert.True(t, em.Closed())
}

func TestEmitter_SuppressesDuplicateToolResult(t *testing.T) {
	sink := &capturingSink{}
	em := NewEmitter("turn-1", sink)

	em.Start("test-model")
	em.ToolStart("log_set")
	assert.True(t, em.ToolResult("log_set", blocks.List{}))
	// Same call already answered: the terminal result is suppressed.
	assert.False(t, em.ToolResult("log_set", blocks.List{}))
	em.Final(finalResponse())

	require.Equal(t, []Type{TypeStart, TypeToolStart, TypeToolResult, TypeFinal}, sink.types())
}

func TestEmitter_DropsEventsOutsideSequence(t *testing.T) {
	sink := &capturingSink{}
	em := NewEmitter("turn-1", sink)

	// Nothing before start.
	em.ToolStart("log_set")
	em.ToolResult("log_set", blocks.List{})
	em.Final(finalResponse())
	require.Empty(t, sink.types())

	em.Start("test-model")
	em.Start("test-model") // duplicate start dropped
	em.ToolResult("log_set", blocks.List{}) // no open call
	em.Error("boom")

	// Nothing after the terminal event.
	em.ToolStart("log_set")
	em.Final(finalResponse())
	em.Error("boom again")

	require.Equal(t, []Type{TypeStart, TypeError}, sink.types())
}

func TestEmitter_TerminalIsUnique(t *testing.T) {
	sink := &capturingSink{}
	em := NewEmitter("turn-1", sink)

	em.Start("m")
	em.Final(finalResponse())
	em.Error("late error")
	em.Final(finalResponse())

	require.Equal(t, []Type{TypeStart, TypeFinal}, sink.types())
}

func TestEvent_JSONRoundTrip(t *testing.T) {
	events := []Event{
		NewStartEvent(Metadata{TurnID: "turn-7"}, "gpt-4o-mini"),
		NewToolStartEvent(Metadata{TurnID: "turn-7"}, "log_set"),
		NewToolResultEvent(Metadata{TurnID: "turn-7"}, "log_set", blocks.List{
			blocks.NewStatus(blocks.ToneSuccess, "Set logged", "10 reps"),
		}),
		NewFinalEvent(Metadata{TurnID: "turn-7"}, finalResponse()),
		NewErrorEvent(Metadata{TurnID: "turn-7"}, "model unavailable"),
	}

	for _, ev := range events {
		b, err := json.Marshal(ev)
		require.NoError(t, err)
		decoded, err := NewEventFromJSON(b)
		require.NoError(t, err)
		assert.Equal(t, ev.Type(), decoded.Type())
		assert.Equal(t, ev, decoded)
	}
}
