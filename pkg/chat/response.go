package chat

import (
	"github.com/pkg/errors"

	"github.com/go-go-golems/repcoach/pkg/blocks"
)

// FallbackModel is the trace model id reported by the deterministic strategy.
const FallbackModel = "fallback-deterministic"

const MaxAssistantTextLen = 4000

// Trace records the actual execution path of a turn: which tools ran and
// whether the deterministic fallback produced the answer. It is mandatory
// on every response.
type Trace struct {
	ToolsUsed    []string `json:"toolsUsed"`
	Model        string   `json:"model"`
	FallbackUsed bool     `json:"fallbackUsed"`
}

// TurnResponse is the single wire contract both strategies emit.
type TurnResponse struct {
	AssistantText string      `json:"assistantText"`
	Blocks        blocks.List `json:"blocks"`
	Trace         Trace       `json:"trace"`
}

func (r *TurnResponse) Validate() error {
	if len(r.AssistantText) > MaxAssistantTextLen {
		return errors.Errorf("assistantText exceeds %d characters", MaxAssistantTextLen)
	}
	if r.Trace.Model == "" {
		return errors.New("trace.model must not be empty")
	}
	if r.Trace.ToolsUsed == nil {
		return errors.New("trace.toolsUsed must not be nil")
	}
	return r.Blocks.Validate()
}
