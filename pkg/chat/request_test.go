package chat

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/repcoach/pkg/blocks"
)

func validRequest() *TurnRequest {
	return &TurnRequest{
		Messages: []Message{
			{Role: RoleUser, Content: "10 pushups"},
		},
		Preferences: Preferences{Unit: "lbs", SoundEnabled: true},
	}
}

func TestTurnRequest_Valid(t *testing.T) {
	require.NoError(t, validRequest().Validate())

	tz := -300
	req := validRequest()
	req.Preferences.TimezoneOffsetMinutes = &tz
	require.NoError(t, req.Validate())
}

func TestTurnRequest_ConstraintViolations(t *testing.T) {
	tzLow := -841
	cases := []struct {
		name       string
		mutate     func(*TurnRequest)
		constraint Constraint
	}{
		{
			"no messages",
			func(r *TurnRequest) { r.Messages = nil },
			ConstraintMessageCount,
		},
		{
			"too many messages",
			func(r *TurnRequest) {
				r.Messages = make([]Message, MaxMessages+1)
				for i := range r.Messages {
					r.Messages[i] = Message{Role: RoleUser, Content: "hi"}
				}
			},
			ConstraintMessageCount,
		},
		{
			"empty content",
			func(r *TurnRequest) { r.Messages[0].Content = "" },
			ConstraintMessageContent,
		},
		{
			"oversized content",
			func(r *TurnRequest) { r.Messages[0].Content = strings.Repeat("a", MaxMessageContentLen+1) },
			ConstraintMessageContent,
		},
		{
			"bad role",
			func(r *TurnRequest) { r.Messages[0].Role = "system" },
			ConstraintMessageRole,
		},
		{
			"oversized conversation",
			func(r *TurnRequest) {
				r.Messages = nil
				for i := 0; i < 10; i++ {
					r.Messages = append(r.Messages, Message{Role: RoleUser, Content: strings.Repeat("a", MaxMessageContentLen)})
				}
			},
			ConstraintTotalSize,
		},
		{
			"bad unit",
			func(r *TurnRequest) { r.Preferences.Unit = "stone" },
			ConstraintPreferences,
		},
		{
			"timezone out of range",
			func(r *TurnRequest) { r.Preferences.TimezoneOffsetMinutes = &tzLow },
			ConstraintPreferences,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)
			err := req.Validate()
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.constraint, verr.Constraint)
		})
	}
}

func TestTurnRequest_LatestUserMessage(t *testing.T) {
	req := &TurnRequest{
		Messages: []Message{
			{Role: RoleUser, Content: "first"},
			{Role: RoleAssistant, Content: "reply"},
			{Role: RoleUser, Content: "second"},
			{Role: RoleAssistant, Content: "reply again"},
		},
	}
	msg, ok := req.LatestUserMessage()
	require.True(t, ok)
	assert.Equal(t, "second", msg)

	empty := &TurnRequest{Messages: []Message{{Role: RoleAssistant, Content: "hello"}}}
	_, ok = empty.LatestUserMessage()
	assert.False(t, ok)
}

func TestTurnResponse_ValidateAndRoundTrip(t *testing.T) {
	resp := &TurnResponse{
		AssistantText: "Logged 10 Push-ups.",
		Blocks: blocks.List{
			blocks.NewStatus(blocks.ToneSuccess, "Set logged", "10 reps"),
		},
		Trace: Trace{ToolsUsed: []string{"log_set"}, Model: FallbackModel, FallbackUsed: true},
	}
	require.NoError(t, resp.Validate())

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var decoded TurnResponse
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, *resp, decoded)
}

func TestTurnResponse_RequiresTrace(t *testing.T) {
	resp := &TurnResponse{AssistantText: "hi", Trace: Trace{ToolsUsed: []string{}}}
	assert.Error(t, resp.Validate())

	resp.Trace.Model = "gpt-4o-mini"
	assert.NoError(t, resp.Validate())

	resp.Trace.ToolsUsed = nil
	assert.Error(t, resp.Validate())
}
