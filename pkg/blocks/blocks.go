package blocks

// Kind identifies one of the closed set of renderable block shapes.
type Kind string

const (
	KindStatus       Kind = "status"
	KindMetrics      Kind = "metrics"
	KindTrend        Kind = "trend"
	KindTable        Kind = "table"
	KindSuggestions  Kind = "suggestions"
	KindEntityList   Kind = "entity_list"
	KindDetailPanel  Kind = "detail_panel"
	KindBillingPanel Kind = "billing_panel"
	KindQuickLogForm Kind = "quick_log_form"
	KindConfirmation Kind = "confirmation"
	KindClientAction Kind = "client_action"
	KindUndo         Kind = "undo"
)

// Block is one unit of structured, schema-validated UI content.
// Each variant is a separate struct; the union is closed and enforced
// by List (un)marshaling and by Validate.
type Block interface {
	Kind() Kind
	Validate() error
}

type Tone string

const (
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
)

type Status struct {
	Tone        Tone   `json:"tone"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (b *Status) Kind() Kind { return KindStatus }

type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

type Metrics struct {
	Title string   `json:"title"`
	Items []Metric `json:"items"`
}

func (b *Metrics) Kind() Kind { return KindMetrics }

// TrendMetric selects what a trend block charts.
type TrendMetric string

const (
	TrendMetricReps     TrendMetric = "reps"
	TrendMetricDuration TrendMetric = "duration"
)

type TrendPoint struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Trend struct {
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle"`
	Metric   TrendMetric  `json:"metric"`
	Points   []TrendPoint `json:"points"`
	Total    float64      `json:"total"`
	BestDay  *TrendPoint  `json:"bestDay,omitempty"`
}

func (b *Trend) Kind() Kind { return KindTrend }

type TableRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Meta  string `json:"meta,omitempty"`
}

type Table struct {
	Title string     `json:"title"`
	Rows  []TableRow `json:"rows"`
}

func (b *Table) Kind() Kind { return KindTable }

type Suggestions struct {
	Prompts []string `json:"prompts"`
}

func (b *Suggestions) Kind() Kind { return KindSuggestions }

type EntityItem struct {
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Meta     string   `json:"meta,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Prompt   string   `json:"prompt,omitempty"`
}

type EntityList struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	EmptyLabel  string       `json:"emptyLabel,omitempty"`
	Items       []EntityItem `json:"items"`
}

func (b *EntityList) Kind() Kind { return KindEntityList }

type DetailField struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

type DetailPanel struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Fields      []DetailField `json:"fields"`
	Prompts     []string      `json:"prompts,omitempty"`
}

func (b *DetailPanel) Kind() Kind { return KindDetailPanel }

type BillingStatus string

const (
	BillingTrial    BillingStatus = "trial"
	BillingActive   BillingStatus = "active"
	BillingPastDue  BillingStatus = "past_due"
	BillingCanceled BillingStatus = "canceled"
	BillingExpired  BillingStatus = "expired"
)

type CTAAction string

const (
	CTAOpenCheckout      CTAAction = "open_checkout"
	CTAOpenBillingPortal CTAAction = "open_billing_portal"
)

type BillingPanel struct {
	Status             BillingStatus `json:"status"`
	Title              string        `json:"title"`
	Subtitle           string        `json:"subtitle,omitempty"`
	TrialDaysRemaining *int          `json:"trialDaysRemaining,omitempty"`
	PeriodEnd          string        `json:"periodEnd,omitempty"`
	CTALabel           string        `json:"ctaLabel,omitempty"`
	CTAAction          CTAAction     `json:"ctaAction,omitempty"`
}

func (b *BillingPanel) Kind() Kind { return KindBillingPanel }

type QuickLogForm struct {
	Title        string `json:"title"`
	ExerciseName string `json:"exerciseName,omitempty"`
	DefaultUnit  string `json:"defaultUnit,omitempty"`
}

func (b *QuickLogForm) Kind() Kind { return KindQuickLogForm }

type ConfirmationLabels struct {
	Confirm string `json:"confirm,omitempty"`
	Cancel  string `json:"cancel,omitempty"`
}

type Confirmation struct {
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	ConfirmPrompt string              `json:"confirmPrompt"`
	CancelPrompt  string              `json:"cancelPrompt,omitempty"`
	Labels        *ConfirmationLabels `json:"labels,omitempty"`
}

func (b *Confirmation) Kind() Kind { return KindConfirmation }

// ClientActionName identifies an action the client executes locally.
type ClientActionName string

const (
	ActionSetWeightUnit     ClientActionName = "set_weight_unit"
	ActionSetSound          ClientActionName = "set_sound"
	ActionOpenCheckout      ClientActionName = "open_checkout"
	ActionOpenBillingPortal ClientActionName = "open_billing_portal"
)

// ClientAction carries an action plus a payload whose exact shape depends
// on the action. The payload is kept as a generic map so the schema
// boundary can reject extra keys instead of silently dropping them.
type ClientAction struct {
	Action  ClientActionName `json:"action"`
	Payload map[string]any   `json:"payload"`
}

func (b *ClientAction) Kind() Kind { return KindClientAction }

type Undo struct {
	ActionID    string `json:"actionId"`
	TurnID      string `json:"turnId"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

func (b *Undo) Kind() Kind { return KindUndo }

// List is an ordered sequence of blocks with union-aware JSON handling.
type List []Block

// NewStatus is a convenience constructor used all over the tool layer.
func NewStatus(tone Tone, title, description string) *Status {
	return &Status{Tone: tone, Title: title, Description: description}
}

// NewErrorStatus builds the canonical in-band failure block.
func NewErrorStatus(description string) *Status {
	return &Status{Tone: ToneError, Title: "Tool failed", Description: description}
}

// NewSetWeightUnitAction builds a client_action with the exact payload
// shape required for set_weight_unit.
func NewSetWeightUnitAction(unit string) *ClientAction {
	return &ClientAction{Action: ActionSetWeightUnit, Payload: map[string]any{"unit": unit}}
}

// NewSetSoundAction builds a client_action with the exact payload shape
// required for set_sound.
func NewSetSoundAction(enabled bool) *ClientAction {
	return &ClientAction{Action: ActionSetSound, Payload: map[string]any{"enabled": enabled}}
}

// NewOpenCheckoutAction builds a client_action for opening checkout.
func NewOpenCheckoutAction() *ClientAction {
	return &ClientAction{Action: ActionOpenCheckout, Payload: map[string]any{"mode": "checkout"}}
}

// NewOpenBillingPortalAction builds a client_action for opening the billing portal.
func NewOpenBillingPortalAction() *ClientAction {
	return &ClientAction{Action: ActionOpenBillingPortal, Payload: map[string]any{"mode": "portal"}}
}
