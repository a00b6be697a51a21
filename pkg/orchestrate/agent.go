package orchestrate

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/repcoach/pkg/blocks"
	"github.com/go-go-golems/repcoach/pkg/chat"
	"github.com/go-go-golems/repcoach/pkg/engine"
	"github.com/go-go-golems/repcoach/pkg/events"
	"github.com/go-go-golems/repcoach/pkg/tools"
)

const defaultSystemPrompt = `You are a concise fitness coach inside a workout tracking app.
Use the provided tools to log sets and answer questions about the user's training.
Prefer calling a tool over guessing; keep your final answer to one or two sentences.`

// runAgent drives the model loop: each step either requests tool calls
// (dispatched as one bounded-parallel batch; result events reflect
// completion order) or yields the final assistant text.
func runAgent(
	ctx context.Context,
	eng engine.Engine,
	dp *tools.Dispatcher,
	reg tools.Registry,
	tc *tools.Context,
	req *chat.TurnRequest,
	em *events.Emitter,
	systemPrompt string,
	maxIterations int,
) (*chat.TurnResponse, error) {
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	if maxIterations <= 0 {
		maxIterations = 4
	}

	transcript := []engine.Message{{Role: engine.RoleSystem, Content: systemPrompt}}
	for _, m := range req.Messages {
		transcript = append(transcript, engine.Message{Role: string(m.Role), Content: m.Content})
	}
	defs := reg.List()

	var collected blocks.List
	toolsUsed := []string{}

	for iter := 0; iter < maxIterations; iter++ {
		step, err := eng.Step(ctx, transcript, defs)
		if err != nil {
			return nil, errors.Wrap(err, "model step failed")
		}

		if len(step.ToolCalls) == 0 {
			return &chat.TurnResponse{
				AssistantText: clampText(step.Text),
				Blocks:        collected,
				Trace: chat.Trace{
					ToolsUsed:    toolsUsed,
					Model:        eng.Model(),
					FallbackUsed: false,
				},
			}, nil
		}

		transcript = append(transcript, engine.Message{
			Role:      engine.RoleAssistant,
			Content:   step.Text,
			ToolCalls: step.ToolCalls,
		})

		for _, call := range step.ToolCalls {
			em.ToolStart(call.Name)
		}
		results := dp.DispatchBatch(ctx, tc, step.ToolCalls, func(toolName string, bl blocks.List) bool {
			return em.ToolResult(toolName, bl)
		})
		for i, d := range results {
			call := step.ToolCalls[i]
			collected = append(collected, d.Blocks...)
			toolsUsed = append(toolsUsed, call.Name)

			feedback := map[string]interface{}{"summary": d.Summary}
			if d.Output != nil {
				feedback["output"] = d.Output
			}
			if d.Err != "" {
				feedback["error"] = d.Err
			}
			raw, err := json.Marshal(feedback)
			if err != nil {
				raw = []byte(`{"error":"could not encode tool output"}`)
			}
			transcript = append(transcript, engine.Message{
				Role:       engine.RoleTool,
				Content:    string(raw),
				ToolCallID: call.ID,
			})
		}
	}

	log.Warn().Int("max_iterations", maxIterations).Msg("agent loop hit iteration cap")
	return &chat.TurnResponse{
		AssistantText: "I ran out of steps before finishing that. Here is what I got.",
		Blocks:        collected,
		Trace: chat.Trace{
			ToolsUsed:    toolsUsed,
			Model:        eng.Model(),
			FallbackUsed: false,
		},
	}, nil
}
