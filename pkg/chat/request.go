package chat

import "fmt"

// Role of a conversation message. Only user and assistant appear on the
// wire; system prompts are an engine concern.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Bounds on a turn request. A conversation that exceeds any of these is
// rejected with a single ValidationError naming the violated constraint.
const (
	MaxMessages          = 30
	MaxMessageContentLen = 4000
	MaxTotalContentLen   = 32000
	MaxTimezoneOffsetMin = 840
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Preferences struct {
	Unit                  string `json:"unit"`
	SoundEnabled          bool   `json:"soundEnabled"`
	TimezoneOffsetMinutes *int   `json:"timezoneOffsetMinutes,omitempty"`
}

// TurnRequest is the validated envelope for one conversation turn.
type TurnRequest struct {
	Messages    []Message   `json:"messages"`
	Preferences Preferences `json:"preferences"`
}

// Constraint identifies which top-level request bound was violated.
type Constraint string

const (
	ConstraintMessageCount   Constraint = "message_count"
	ConstraintMessageContent Constraint = "message_content"
	ConstraintMessageRole    Constraint = "message_role"
	ConstraintTotalSize      Constraint = "total_size"
	ConstraintPreferences    Constraint = "preferences"
)

// ValidationError is the single structured error surfaced for an invalid
// request. It deliberately names one constraint rather than dumping a
// field-by-field report.
type ValidationError struct {
	Constraint Constraint `json:"constraint"`
	Message    string     `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid turn request (%s): %s", e.Constraint, e.Message)
}

// Validate checks the request bounds. It returns a *ValidationError so
// the transport layer can map it to a structured 400 body.
func (r *TurnRequest) Validate() error {
	if len(r.Messages) == 0 {
		return &ValidationError{
			Constraint: ConstraintMessageCount,
			Message:    "at least one message is required",
		}
	}
	if len(r.Messages) > MaxMessages {
		return &ValidationError{
			Constraint: ConstraintMessageCount,
			Message:    fmt.Sprintf("at most %d messages are allowed", MaxMessages),
		}
	}

	total := 0
	for i, m := range r.Messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return &ValidationError{
				Constraint: ConstraintMessageRole,
				Message:    fmt.Sprintf("message %d has unknown role %q", i, m.Role),
			}
		}
		if len(m.Content) == 0 || len(m.Content) > MaxMessageContentLen {
			return &ValidationError{
				Constraint: ConstraintMessageContent,
				Message:    fmt.Sprintf("message %d content must be 1..%d characters", i, MaxMessageContentLen),
			}
		}
		total += len(m.Content)
	}
	// The total-size ceiling is a single constraint, not a per-message check.
	if total > MaxTotalContentLen {
		return &ValidationError{
			Constraint: ConstraintTotalSize,
			Message:    fmt.Sprintf("conversation exceeds %d total characters", MaxTotalContentLen),
		}
	}

	if r.Preferences.Unit != "lbs" && r.Preferences.Unit != "kg" {
		return &ValidationError{
			Constraint: ConstraintPreferences,
			Message:    fmt.Sprintf("unit must be \"lbs\" or \"kg\", got %q", r.Preferences.Unit),
		}
	}
	if tz := r.Preferences.TimezoneOffsetMinutes; tz != nil {
		if *tz < -MaxTimezoneOffsetMin || *tz > MaxTimezoneOffsetMin {
			return &ValidationError{
				Constraint: ConstraintPreferences,
				Message:    fmt.Sprintf("timezoneOffsetMinutes must be within ±%d", MaxTimezoneOffsetMin),
			}
		}
	}
	return nil
}

// LatestUserMessage returns the content of the most recent user message,
// which is what the deterministic strategy parses.
func (r *TurnRequest) LatestUserMessage() (string, bool) {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content, true
		}
	}
	return "", false
}
