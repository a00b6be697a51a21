package blocks

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field-length and entry-count ceilings for the block catalog. These are
// part of the wire contract: payloads exceeding them are rejected at the
// schema boundary, not truncated.
const (
	MaxTitleLen          = 200
	MaxStatusDescLen     = 2000
	MaxShortDescLen      = 400
	MaxSuggestionPrompts = 6
	MaxDetailPrompts     = 8
	MaxTableRows         = 50
	MaxTrendPoints       = 90
	MaxMetricsItems      = 12
	MaxEntityItems       = 50
	MaxDetailFields      = 20
)

func checkTitle(kind Kind, title string) error {
	if title == "" {
		return errors.Errorf("%s: title must not be empty", kind)
	}
	if len(title) > MaxTitleLen {
		return errors.Errorf("%s: title exceeds %d characters", kind, MaxTitleLen)
	}
	return nil
}

func checkLen(kind Kind, field, s string, max int) error {
	if len(s) > max {
		return errors.Errorf("%s: %s exceeds %d characters", kind, field, max)
	}
	return nil
}

func (b *Status) Validate() error {
	switch b.Tone {
	case ToneInfo, ToneSuccess, ToneWarning, ToneError:
	default:
		return errors.Errorf("status: unknown tone %q", b.Tone)
	}
	if err := checkTitle(KindStatus, b.Title); err != nil {
		return err
	}
	return checkLen(KindStatus, "description", b.Description, MaxStatusDescLen)
}

func (b *Metrics) Validate() error {
	if err := checkTitle(KindMetrics, b.Title); err != nil {
		return err
	}
	if len(b.Items) == 0 {
		return errors.New("metrics: at least one item is required")
	}
	if len(b.Items) > MaxMetricsItems {
		return errors.Errorf("metrics: more than %d items", MaxMetricsItems)
	}
	for i, m := range b.Items {
		if m.Label == "" || m.Value == "" {
			return errors.Errorf("metrics: item %d needs label and value", i)
		}
	}
	return nil
}

func (b *Trend) Validate() error {
	if err := checkTitle(KindTrend, b.Title); err != nil {
		return err
	}
	if err := checkLen(KindTrend, "subtitle", b.Subtitle, MaxTitleLen); err != nil {
		return err
	}
	if b.Metric != TrendMetricReps && b.Metric != TrendMetricDuration {
		return errors.Errorf("trend: unknown metric %q", b.Metric)
	}
	if len(b.Points) > MaxTrendPoints {
		return errors.Errorf("trend: more than %d points", MaxTrendPoints)
	}
	for i, p := range b.Points {
		if p.Date == "" {
			return errors.Errorf("trend: point %d missing date", i)
		}
	}
	return nil
}

func (b *Table) Validate() error {
	if err := checkTitle(KindTable, b.Title); err != nil {
		return err
	}
	if len(b.Rows) > MaxTableRows {
		return errors.Errorf("table: more than %d rows", MaxTableRows)
	}
	for i, r := range b.Rows {
		if r.Label == "" {
			return errors.Errorf("table: row %d missing label", i)
		}
	}
	return nil
}

func (b *Suggestions) Validate() error {
	if len(b.Prompts) == 0 {
		return errors.New("suggestions: at least one prompt is required")
	}
	if len(b.Prompts) > MaxSuggestionPrompts {
		return errors.Errorf("suggestions: more than %d prompts", MaxSuggestionPrompts)
	}
	for i, p := range b.Prompts {
		if p == "" {
			return errors.Errorf("suggestions: prompt %d is empty", i)
		}
		if len(p) > MaxTitleLen {
			return errors.Errorf("suggestions: prompt %d exceeds %d characters", i, MaxTitleLen)
		}
	}
	return nil
}

func (b *EntityList) Validate() error {
	if err := checkTitle(KindEntityList, b.Title); err != nil {
		return err
	}
	if err := checkLen(KindEntityList, "description", b.Description, MaxShortDescLen); err != nil {
		return err
	}
	if len(b.Items) > MaxEntityItems {
		return errors.Errorf("entity_list: more than %d items", MaxEntityItems)
	}
	for i, it := range b.Items {
		if it.Title == "" {
			return errors.Errorf("entity_list: item %d missing title", i)
		}
		if len(it.Title) > MaxTitleLen {
			return errors.Errorf("entity_list: item %d title exceeds %d characters", i, MaxTitleLen)
		}
	}
	return nil
}

func (b *DetailPanel) Validate() error {
	if err := checkTitle(KindDetailPanel, b.Title); err != nil {
		return err
	}
	if err := checkLen(KindDetailPanel, "description", b.Description, MaxShortDescLen); err != nil {
		return err
	}
	if len(b.Fields) == 0 {
		return errors.New("detail_panel: at least one field is required")
	}
	if len(b.Fields) > MaxDetailFields {
		return errors.Errorf("detail_panel: more than %d fields", MaxDetailFields)
	}
	for i, f := range b.Fields {
		if f.Label == "" {
			return errors.Errorf("detail_panel: field %d missing label", i)
		}
	}
	if len(b.Prompts) > MaxDetailPrompts {
		return errors.Errorf("detail_panel: more than %d prompts", MaxDetailPrompts)
	}
	return nil
}

func (b *BillingPanel) Validate() error {
	switch b.Status {
	case BillingTrial, BillingActive, BillingPastDue, BillingCanceled, BillingExpired:
	default:
		return errors.Errorf("billing_panel: unknown status %q", b.Status)
	}
	if err := checkTitle(KindBillingPanel, b.Title); err != nil {
		return err
	}
	if err := checkLen(KindBillingPanel, "subtitle", b.Subtitle, MaxTitleLen); err != nil {
		return err
	}
	if b.TrialDaysRemaining != nil && *b.TrialDaysRemaining < 0 {
		return errors.New("billing_panel: trialDaysRemaining must not be negative")
	}
	switch b.CTAAction {
	case "", CTAOpenCheckout, CTAOpenBillingPortal:
	default:
		return errors.Errorf("billing_panel: unknown ctaAction %q", b.CTAAction)
	}
	return nil
}

func (b *QuickLogForm) Validate() error {
	if err := checkTitle(KindQuickLogForm, b.Title); err != nil {
		return err
	}
	return checkLen(KindQuickLogForm, "exerciseName", b.ExerciseName, MaxTitleLen)
}

func (b *Confirmation) Validate() error {
	if err := checkTitle(KindConfirmation, b.Title); err != nil {
		return err
	}
	if b.Description == "" {
		return errors.New("confirmation: description must not be empty")
	}
	if err := checkLen(KindConfirmation, "description", b.Description, MaxShortDescLen); err != nil {
		return err
	}
	if b.ConfirmPrompt == "" {
		return errors.New("confirmation: confirmPrompt must not be empty")
	}
	if err := checkLen(KindConfirmation, "confirmPrompt", b.ConfirmPrompt, MaxTitleLen); err != nil {
		return err
	}
	return checkLen(KindConfirmation, "cancelPrompt", b.CancelPrompt, MaxTitleLen)
}

// clientActionShapes maps each action to the exact payload it requires.
// The value check closes over the expected type/value of the single key.
var clientActionShapes = map[ClientActionName]struct {
	key   string
	check func(any) error
}{
	ActionSetWeightUnit: {key: "unit", check: func(v any) error {
		s, ok := v.(string)
		if !ok || (s != "kg" && s != "lbs") {
			return errors.Errorf("client_action: unit must be \"kg\" or \"lbs\", got %v", v)
		}
		return nil
	}},
	ActionSetSound: {key: "enabled", check: func(v any) error {
		if _, ok := v.(bool); !ok {
			return errors.Errorf("client_action: enabled must be a boolean, got %v", v)
		}
		return nil
	}},
	ActionOpenCheckout: {key: "mode", check: func(v any) error {
		if v != "checkout" {
			return errors.Errorf("client_action: mode must be \"checkout\", got %v", v)
		}
		return nil
	}},
	ActionOpenBillingPortal: {key: "mode", check: func(v any) error {
		if v != "portal" {
			return errors.Errorf("client_action: mode must be \"portal\", got %v", v)
		}
		return nil
	}},
}

// Validate enforces the cross-field invariant: the payload must match the
// action exactly, with no extra keys.
func (b *ClientAction) Validate() error {
	shape, ok := clientActionShapes[b.Action]
	if !ok {
		return errors.Errorf("client_action: unknown action %q", b.Action)
	}
	if len(b.Payload) != 1 {
		return errors.Errorf("client_action: %s payload must contain exactly the %q key", b.Action, shape.key)
	}
	v, ok := b.Payload[shape.key]
	if !ok {
		return errors.Errorf("client_action: %s payload missing %q key", b.Action, shape.key)
	}
	return shape.check(v)
}

func (b *Undo) Validate() error {
	if b.ActionID == "" || b.TurnID == "" {
		return errors.New("undo: actionId and turnId are required")
	}
	if err := checkLen(KindUndo, "title", b.Title, MaxTitleLen); err != nil {
		return err
	}
	return checkLen(KindUndo, "description", b.Description, MaxShortDescLen)
}

// Validate checks every block in the list, reporting the first failure
// with its index.
func (l List) Validate() error {
	for i, b := range l {
		if b == nil {
			return fmt.Errorf("block %d is nil", i)
		}
		if err := b.Validate(); err != nil {
			return errors.Wrapf(err, "block %d", i)
		}
	}
	return nil
}
