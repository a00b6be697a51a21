// Package engine abstracts the model collaborator driving the agent
// strategy. One Step is one model round trip: the engine either asks
// for tool calls or produces the final assistant text.
package engine

import (
	"context"

	"github.com/go-go-golems/repcoach/pkg/tools"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one transcript entry sent to the model.
type Message struct {
	Role       string
	Content    string
	ToolCallID string       // set on tool result messages
	ToolCalls  []tools.Call // set on assistant messages that requested tools
}

// StepResult is a single model response: tool calls to execute, or
// final text when ToolCalls is empty.
type StepResult struct {
	Text      string
	ToolCalls []tools.Call
}

// Engine is the model collaborator.
type Engine interface {
	Step(ctx context.Context, transcript []Message, defs []*tools.Definition) (*StepResult, error)
	Model() string
}
