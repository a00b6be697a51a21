package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/repcoach/pkg/blocks"
	"github.com/go-go-golems/repcoach/pkg/chat"
)

// Emitter serializes the per-turn event sequence and enforces its
// ordering invariants: start first, tool_start before its tool_result,
// at most one tool_result per tool_start, exactly one terminal event.
// Events that would violate the sequence are dropped with a warning
// instead of corrupting the stream.
//
// An Emitter is single-turn and safe for concurrent use, so bounded
// parallel tool batches can feed it from multiple goroutines.
type Emitter struct {
	mu    sync.Mutex
	meta  Metadata
	sinks []Sink

	started bool
	closed  bool
	// open tool_start events per tool name that have not yet been
	// answered by a tool_result
	open map[string]int
}

func NewEmitter(turnID string, sinks ...Sink) *Emitter {
	return &Emitter{
		meta:  Metadata{TurnID: turnID},
		sinks: sinks,
		open:  map[string]int{},
	}
}

func (e *Emitter) publish(ev Event) {
	for _, sink := range e.sinks {
		if err := sink.PublishEvent(ev); err != nil {
			log.Warn().Err(err).Str("event_type", string(ev.Type())).Msg("emitter: sink publish failed")
		}
	}
}

func (e *Emitter) eventMeta() Metadata {
	m := e.meta
	m.ID = uuid.New()
	return m
}

// Start emits the start event. Repeated calls are dropped.
func (e *Emitter) Start(model string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.started {
		log.Warn().Bool("closed", e.closed).Msg("emitter: dropping duplicate start event")
		return
	}
	e.started = true
	e.publish(NewStartEvent(e.eventMeta(), model))
}

// ToolStart emits a tool_start event and opens a result slot for the call.
func (e *Emitter) ToolStart(toolName string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.started {
		log.Warn().Str("tool", toolName).Msg("emitter: dropping tool_start outside turn sequence")
		return
	}
	e.open[toolName]++
	e.publish(NewToolStartEvent(e.eventMeta(), toolName))
}

// ToolResult emits a tool_result for an open call. It reports whether the
// event was actually emitted; a second result for the same call is
// suppressed so a tool that already streamed its blocks does not produce
// a duplicate terminal event.
func (e *Emitter) ToolResult(toolName string, bl blocks.List) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.started {
		log.Warn().Str("tool", toolName).Msg("emitter: dropping tool_result outside turn sequence")
		return false
	}
	if e.open[toolName] <= 0 {
		log.Warn().Str("tool", toolName).Msg("emitter: suppressing tool_result without matching tool_start")
		return false
	}
	e.open[toolName]--
	e.publish(NewToolResultEvent(e.eventMeta(), toolName, bl))
	return true
}

// Final emits the terminal final event and closes the sequence.
func (e *Emitter) Final(response *chat.TurnResponse) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.started {
		log.Warn().Msg("emitter: dropping final event outside turn sequence")
		return
	}
	e.closed = true
	e.publish(NewFinalEvent(e.eventMeta(), response))
}

// Error emits the terminal error event and closes the sequence.
func (e *Emitter) Error(message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.started {
		log.Warn().Msg("emitter: dropping error event outside turn sequence")
		return
	}
	e.closed = true
	e.publish(NewErrorEvent(e.eventMeta(), message))
}

// Closed reports whether a terminal event has been emitted.
func (e *Emitter) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}
