package intent

// Type classifies a free-text user message.
type Type string

const (
	TypeLogSet         Type = "log_set"
	TypeTodaySummary   Type = "today_summary"
	TypeExerciseReport Type = "exercise_report"
	TypeSetWeightUnit  Type = "set_weight_unit"
	TypeSetSound       Type = "set_sound"
	TypeUnknown        Type = "unknown"
)

// Intent is the structured classification of one user message. Only the
// fields relevant for the matched Type are populated.
type Intent struct {
	Type Type `json:"type"`

	// log_set / exercise_report
	ExerciseName string `json:"exerciseName,omitempty"`

	// log_set
	Reps            int     `json:"reps,omitempty"`
	DurationSeconds int     `json:"durationSeconds,omitempty"`
	Weight          float64 `json:"weight,omitempty"`
	WeightUnit      string  `json:"weightUnit,omitempty"`

	// set_weight_unit
	Unit string `json:"unit,omitempty"`

	// set_sound
	SoundEnabled bool `json:"soundEnabled,omitempty"`

	// unknown: the raw input, verbatim, so callers can still display it
	Input string `json:"input,omitempty"`
}
