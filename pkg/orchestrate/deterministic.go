package orchestrate

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/repcoach/pkg/blocks"
	"github.com/go-go-golems/repcoach/pkg/chat"
	"github.com/go-go-golems/repcoach/pkg/events"
	"github.com/go-go-golems/repcoach/pkg/intent"
	"github.com/go-go-golems/repcoach/pkg/tools"
)

// intentToCall maps a parsed intent onto its fixed tool call. The
// unknown type (and report intents without a name, which the parser
// never produces) return false.
func intentToCall(in intent.Intent) (tools.Call, bool) {
	var args interface{}
	var name string
	switch in.Type {
	case intent.TypeLogSet:
		name = "log_set"
		args = map[string]interface{}{
			"exercise_name":    in.ExerciseName,
			"reps":             in.Reps,
			"duration_seconds": in.DurationSeconds,
			"weight":           in.Weight,
			"unit":             in.WeightUnit,
		}
	case intent.TypeTodaySummary:
		name = "get_today_summary"
		args = struct{}{}
	case intent.TypeExerciseReport:
		name = "get_exercise_report"
		args = map[string]string{"exercise_name": in.ExerciseName}
	case intent.TypeSetWeightUnit:
		name = "set_weight_unit"
		args = map[string]string{"unit": in.Unit}
	case intent.TypeSetSound:
		name = "set_sound"
		args = map[string]bool{"enabled": in.SoundEnabled}
	default:
		return tools.Call{}, false
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return tools.Call{}, false
	}
	return tools.Call{Name: name, Arguments: raw}, true
}

// runDeterministic is the rule-based strategy: parse, dispatch one
// tool, normalize. It never fails; any panic in the flow becomes a
// generic failure response, still schema-conformant, and a response
// that does not conform to the block ceilings is downgraded the same
// way before it goes out.
func runDeterministic(ctx context.Context, dp *tools.Dispatcher, tc *tools.Context, req *chat.TurnRequest, em *events.Emitter) (resp *chat.TurnResponse) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("deterministic strategy panicked")
			resp = &chat.TurnResponse{
				AssistantText: "Fallback execution failed.",
				Blocks: blocks.List{
					blocks.NewErrorStatus("Something went wrong while handling your message."),
				},
				Trace: fallbackTrace(nil),
			}
		}
	}()

	resp = deterministicTurn(ctx, dp, tc, req, em)
	if err := resp.Validate(); err != nil {
		log.Warn().Err(err).Msg("deterministic response failed validation, downgrading")
		resp = &chat.TurnResponse{
			AssistantText: "Sorry, I couldn't complete that.",
			Blocks: blocks.List{
				blocks.NewErrorStatus("The result could not be displayed."),
			},
			Trace: fallbackTrace(nil),
		}
	}
	return resp
}

func deterministicTurn(ctx context.Context, dp *tools.Dispatcher, tc *tools.Context, req *chat.TurnRequest, em *events.Emitter) *chat.TurnResponse {
	input, ok := req.LatestUserMessage()
	if !ok {
		return noMatchResponse()
	}

	call, matched := intentToCall(intent.Parse(input))
	if !matched {
		norm := strings.Join(strings.Fields(strings.ToLower(input)), " ")
		r, ok := route(norm)
		if !ok {
			return noMatchResponse()
		}
		if r.Tool.Name == "" {
			return &chat.TurnResponse{
				AssistantText: r.Text,
				Blocks:        r.Blocks,
				Trace:         fallbackTrace(nil),
			}
		}
		call = r.Tool
	}

	em.ToolStart(call.Name)
	d := dp.Dispatch(ctx, tc, call, func(toolName string, bl blocks.List) bool {
		return em.ToolResult(toolName, bl)
	})

	text := d.Summary
	if d.Err != "" {
		text = "Sorry, I couldn't complete that."
	}
	return &chat.TurnResponse{
		AssistantText: clampText(text),
		Blocks:        d.Blocks,
		Trace:         fallbackTrace([]string{call.Name}),
	}
}

func fallbackTrace(toolsUsed []string) chat.Trace {
	if toolsUsed == nil {
		toolsUsed = []string{}
	}
	return chat.Trace{
		ToolsUsed:    toolsUsed,
		Model:        chat.FallbackModel,
		FallbackUsed: true,
	}
}

func noMatchResponse() *chat.TurnResponse {
	return &chat.TurnResponse{
		AssistantText: "I didn't catch that. Here are some things you can try.",
		Blocks: blocks.List{
			blocks.NewStatus(blocks.ToneInfo, "Not sure what you meant",
				"Try logging a set or asking about your progress."),
			&blocks.Suggestions{Prompts: defaultPrompts},
		},
		Trace: fallbackTrace(nil),
	}
}

func clampText(s string) string {
	if len(s) > chat.MaxAssistantTextLen {
		return s[:chat.MaxAssistantTextLen]
	}
	return s
}
