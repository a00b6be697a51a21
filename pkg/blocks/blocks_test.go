package blocks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func validBlocks() List {
	return List{
		NewStatus(ToneSuccess, "Set logged", "10 reps of Push-ups"),
		&Metrics{Title: "Today", Items: []Metric{
			{Label: "Total reps", Value: "42"},
			{Label: "Volume", Value: "1850", Unit: "lbs"},
		}},
		&Trend{
			Title:    "Push-ups trend",
			Subtitle: "Last 30 days",
			Metric:   TrendMetricReps,
			Points: []TrendPoint{
				{Date: "2026-08-28", Label: "Thu", Value: 30},
				{Date: "2026-08-29", Label: "Fri", Value: 45},
			},
			Total:   75,
			BestDay: &TrendPoint{Date: "2026-08-29", Label: "Fri", Value: 45},
		},
		&Table{Title: "Recent sets", Rows: []TableRow{
			{Label: "Push-ups", Value: "10 reps", Meta: "2m ago"},
		}},
		&Suggestions{Prompts: []string{"10 pushups", "show trend for bench press"}},
		&EntityList{
			Title:      "Exercises",
			EmptyLabel: "No exercises yet",
			Items: []EntityItem{
				{ID: "ex-1", Title: "Push-ups", Subtitle: "Chest", Tags: []string{"chest", "triceps"}, Prompt: "trend for push-ups"},
			},
		},
		&DetailPanel{
			Title:  "Bench Press",
			Fields: []DetailField{{Label: "Best set", Value: "185 lbs x 5", Emphasis: true}},
			Prompts: []string{
				"log 5x bench press at 185 lbs",
			},
		},
		&BillingPanel{
			Status:             BillingTrial,
			Title:              "Trial",
			TrialDaysRemaining: intPtr(4),
			CTALabel:           "Upgrade",
			CTAAction:          CTAOpenCheckout,
		},
		&QuickLogForm{Title: "Log a set", ExerciseName: "Squats", DefaultUnit: "kg"},
		&Confirmation{
			Title:         "Delete exercise?",
			Description:   "This removes Squats and all its sets.",
			ConfirmPrompt: "delete exercise squats",
			CancelPrompt:  "never mind",
		},
		NewSetWeightUnitAction("kg"),
		NewSetSoundAction(true),
		NewOpenCheckoutAction(),
		NewOpenBillingPortalAction(),
		&Undo{ActionID: "act-1", TurnID: "turn-1", Title: "Undo", Description: "Remove the logged set"},
	}
}

func TestList_RoundTripAllVariants(t *testing.T) {
	original := validBlocks()
	require.NoError(t, original.Validate())

	data, err := original.MarshalJSON()
	require.NoError(t, err)

	var decoded List
	require.NoError(t, decoded.UnmarshalJSON(data))
	require.Equal(t, original, decoded)
}

func TestUnmarshal_RejectsUnknownType(t *testing.T) {
	_, err := Unmarshal([]byte(`{"type":"hologram","title":"nope"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown block type")
}

func TestUnmarshal_RejectsOversizedFields(t *testing.T) {
	longTitle := strings.Repeat("x", MaxTitleLen+1)
	_, err := Unmarshal([]byte(`{"type":"status","tone":"info","title":"` + longTitle + `","description":"d"}`))
	require.Error(t, err)

	longDesc := strings.Repeat("y", MaxStatusDescLen+1)
	_, err = Unmarshal([]byte(`{"type":"status","tone":"info","title":"t","description":"` + longDesc + `"}`))
	require.Error(t, err)
}

func TestValidate_CeilingsPerVariant(t *testing.T) {
	tooManyPrompts := make([]string, MaxSuggestionPrompts+1)
	for i := range tooManyPrompts {
		tooManyPrompts[i] = "p"
	}
	tooManyRows := make([]TableRow, MaxTableRows+1)
	for i := range tooManyRows {
		tooManyRows[i] = TableRow{Label: "l", Value: "v"}
	}
	tooManyPoints := make([]TrendPoint, MaxTrendPoints+1)
	for i := range tooManyPoints {
		tooManyPoints[i] = TrendPoint{Date: "2026-01-01", Value: 1}
	}

	cases := []struct {
		name  string
		block Block
	}{
		{"suggestions over limit", &Suggestions{Prompts: tooManyPrompts}},
		{"table over limit", &Table{Title: "t", Rows: tooManyRows}},
		{"trend over limit", &Trend{Title: "t", Metric: TrendMetricReps, Points: tooManyPoints}},
		{"trend bad metric", &Trend{Title: "t", Metric: "weight"}},
		{"status bad tone", &Status{Tone: "loud", Title: "t"}},
		{"billing bad status", &BillingPanel{Status: "suspended", Title: "t"}},
		{"metrics empty", &Metrics{Title: "t"}},
		{"confirmation missing prompt", &Confirmation{Title: "t", Description: "d"}},
		{"undo missing ids", &Undo{Title: "t"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.block.Validate())
		})
	}
}

func TestClientAction_PayloadMustMatchAction(t *testing.T) {
	cases := []struct {
		name    string
		block   *ClientAction
		wantErr bool
	}{
		{"set_weight_unit kg ok", NewSetWeightUnitAction("kg"), false},
		{"set_weight_unit lbs ok", NewSetWeightUnitAction("lbs"), false},
		{
			"set_weight_unit with enabled payload fails",
			&ClientAction{Action: ActionSetWeightUnit, Payload: map[string]any{"enabled": true}},
			true,
		},
		{
			"set_weight_unit bad unit fails",
			&ClientAction{Action: ActionSetWeightUnit, Payload: map[string]any{"unit": "stone"}},
			true,
		},
		{
			"extra keys fail",
			&ClientAction{Action: ActionSetWeightUnit, Payload: map[string]any{"unit": "kg", "extra": 1}},
			true,
		},
		{"set_sound ok", NewSetSoundAction(false), false},
		{
			"set_sound non-bool fails",
			&ClientAction{Action: ActionSetSound, Payload: map[string]any{"enabled": "yes"}},
			true,
		},
		{"open_checkout ok", NewOpenCheckoutAction(), false},
		{
			"open_checkout wrong mode fails",
			&ClientAction{Action: ActionOpenCheckout, Payload: map[string]any{"mode": "portal"}},
			true,
		},
		{"open_billing_portal ok", NewOpenBillingPortalAction(), false},
		{
			"unknown action fails",
			&ClientAction{Action: "reboot", Payload: map[string]any{"mode": "hard"}},
			true,
		},
		{
			"empty payload fails",
			&ClientAction{Action: ActionSetSound, Payload: map[string]any{}},
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.block.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClientAction_WireValidation(t *testing.T) {
	// The cross-field invariant holds at the schema boundary, not just on
	// locally constructed values.
	_, err := Unmarshal([]byte(`{"type":"client_action","action":"set_weight_unit","payload":{"enabled":true}}`))
	require.Error(t, err)

	b, err := Unmarshal([]byte(`{"type":"client_action","action":"set_weight_unit","payload":{"unit":"kg"}}`))
	require.NoError(t, err)
	ca, ok := b.(*ClientAction)
	require.True(t, ok)
	assert.Equal(t, ActionSetWeightUnit, ca.Action)
}
