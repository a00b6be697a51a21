package engine

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/go-go-golems/repcoach/pkg/tools"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIEngine drives chat completions with function tools.
type OpenAIEngine struct {
	client      *go_openai.Client
	model       string
	temperature float32
}

type OpenAIOption func(*OpenAIEngine)

func WithModel(model string) OpenAIOption {
	return func(e *OpenAIEngine) {
		e.model = model
	}
}

func WithTemperature(t float32) OpenAIOption {
	return func(e *OpenAIEngine) {
		e.temperature = t
	}
}

// WithClient substitutes a preconfigured client (custom base URL,
// proxy, test server).
func WithClient(client *go_openai.Client) OpenAIOption {
	return func(e *OpenAIEngine) {
		e.client = client
	}
}

func NewOpenAIEngine(apiKey string, opts ...OpenAIOption) (*OpenAIEngine, error) {
	e := &OpenAIEngine{
		model:       defaultOpenAIModel,
		temperature: 0.2,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.client == nil {
		if apiKey == "" {
			return nil, errors.New("openai engine needs an API key or a preconfigured client")
		}
		e.client = go_openai.NewClient(apiKey)
	}
	return e, nil
}

func (e *OpenAIEngine) Model() string {
	return e.model
}

func (e *OpenAIEngine) Step(ctx context.Context, transcript []Message, defs []*tools.Definition) (*StepResult, error) {
	req := go_openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: e.temperature,
		Messages:    toOpenAIMessages(transcript),
	}
	for _, def := range defs {
		req.Tools = append(req.Tools, go_openai.Tool{
			Type: go_openai.ToolTypeFunction,
			Function: go_openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}

	log.Debug().
		Str("model", e.model).
		Int("messages", len(req.Messages)).
		Int("tools", len(req.Tools)).
		Msg("openai step")

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	choice := resp.Choices[0].Message
	result := &StepResult{Text: choice.Content}
	for _, tc := range choice.ToolCalls {
		if tc.Function.Name == "" {
			continue
		}
		result.ToolCalls = append(result.ToolCalls, tools.Call{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return result, nil
}

func toOpenAIMessages(transcript []Message) []go_openai.ChatCompletionMessage {
	out := make([]go_openai.ChatCompletionMessage, 0, len(transcript))
	for _, m := range transcript {
		msg := go_openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, go_openai.ToolCall{
				ID:   tc.ID,
				Type: go_openai.ToolTypeFunction,
				Function: go_openai.FunctionCall{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		out = append(out, msg)
	}
	return out
}
