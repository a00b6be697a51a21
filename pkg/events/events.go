package events

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/go-go-golems/repcoach/pkg/blocks"
	"github.com/go-go-golems/repcoach/pkg/chat"
)

type Type string

const (
	TypeStart      Type = "start"
	TypeToolStart  Type = "tool_start"
	TypeToolResult Type = "tool_result"
	TypeFinal      Type = "final"
	TypeError      Type = "error"
)

// Event is one entry in a turn's stream. Events for one turn form a
// strict sequence: exactly one start, zero or more (tool_start,
// tool_result) pairs, then exactly one terminal final or error.
type Event interface {
	Type() Type
	Metadata() Metadata
}

// Metadata identifies which turn an event belongs to.
type Metadata struct {
	ID     uuid.UUID `json:"id"`
	TurnID string    `json:"turn_id,omitempty"`
}

type EventImpl struct {
	Type_     Type     `json:"type"`
	Metadata_ Metadata `json:"meta,omitempty"`
}

func (e *EventImpl) Type() Type         { return e.Type_ }
func (e *EventImpl) Metadata() Metadata { return e.Metadata_ }

var _ Event = &EventImpl{}

type EventStart struct {
	EventImpl
	Model string `json:"model"`
}

func NewStartEvent(meta Metadata, model string) *EventStart {
	return &EventStart{
		EventImpl: EventImpl{Type_: TypeStart, Metadata_: meta},
		Model:     model,
	}
}

type EventToolStart struct {
	EventImpl
	ToolName string `json:"toolName"`
}

func NewToolStartEvent(meta Metadata, toolName string) *EventToolStart {
	return &EventToolStart{
		EventImpl: EventImpl{Type_: TypeToolStart, Metadata_: meta},
		ToolName:  toolName,
	}
}

type EventToolResult struct {
	EventImpl
	ToolName string      `json:"toolName"`
	Blocks   blocks.List `json:"blocks"`
}

func NewToolResultEvent(meta Metadata, toolName string, bl blocks.List) *EventToolResult {
	return &EventToolResult{
		EventImpl: EventImpl{Type_: TypeToolResult, Metadata_: meta},
		ToolName:  toolName,
		Blocks:    bl,
	}
}

type EventFinal struct {
	EventImpl
	Response *chat.TurnResponse `json:"response"`
}

func NewFinalEvent(meta Metadata, response *chat.TurnResponse) *EventFinal {
	return &EventFinal{
		EventImpl: EventImpl{Type_: TypeFinal, Metadata_: meta},
		Response:  response,
	}
}

type EventError struct {
	EventImpl
	Message string `json:"message"`
}

func NewErrorEvent(meta Metadata, message string) *EventError {
	return &EventError{
		EventImpl: EventImpl{Type_: TypeError, Metadata_: meta},
		Message:   message,
	}
}

// NewEventFromJSON decodes a serialized stream event back into its
// concrete type, dispatching on the "type" field.
func NewEventFromJSON(b []byte) (Event, error) {
	var peek struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(b, &peek); err != nil {
		return nil, errors.Wrap(err, "parse event envelope")
	}

	var ev Event
	switch peek.Type {
	case TypeStart:
		ev = &EventStart{}
	case TypeToolStart:
		ev = &EventToolStart{}
	case TypeToolResult:
		ev = &EventToolResult{}
	case TypeFinal:
		ev = &EventFinal{}
	case TypeError:
		ev = &EventError{}
	default:
		return nil, errors.Errorf("unknown event type %q", peek.Type)
	}
	if err := json.Unmarshal(b, ev); err != nil {
		return nil, errors.Wrapf(err, "parse %s event", peek.Type)
	}
	return ev, nil
}
