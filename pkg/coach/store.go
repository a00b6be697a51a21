// Package coach implements the fitness domain behind the turn engine:
// exercises, logged sets, user settings, and the tool set the
// orchestrator dispatches into.
package coach

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/go-go-golems/repcoach/pkg/blocks"
)

// Exercise is one trackable movement in a user's library.
type Exercise struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MuscleGroups []string  `json:"muscleGroups,omitempty"`
	IsTimed      bool      `json:"isTimed,omitempty"`
	Deleted      bool      `json:"deleted,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SetEntry is one logged set.
type SetEntry struct {
	ID              string    `json:"id"`
	ExerciseID      string    `json:"exerciseId"`
	ExerciseName    string    `json:"exerciseName"`
	Reps            int       `json:"reps,omitempty"`
	DurationSeconds int       `json:"durationSeconds,omitempty"`
	Weight          float64   `json:"weight,omitempty"`
	WeightUnit      string    `json:"weightUnit,omitempty"`
	PerformedAt     time.Time `json:"performedAt"`
}

// UserProfile carries per-user settings the tools read and patch.
type UserProfile struct {
	ID            string `json:"id"`
	Unit          string `json:"unit"`
	SoundEnabled  bool   `json:"soundEnabled"`
	TrainingSplit string `json:"trainingSplit,omitempty"`
	CoachNotes    string `json:"coachNotes,omitempty"`
}

// UserPatch is a partial settings update; nil fields are untouched.
type UserPatch struct {
	Unit          *string
	SoundEnabled  *bool
	TrainingSplit *string
	CoachNotes    *string
}

// Subscription is the billing state shown in the billing panel.
type Subscription struct {
	Status             blocks.BillingStatus `json:"status"`
	TrialDaysRemaining int                  `json:"trialDaysRemaining,omitempty"`
	PeriodEnd          time.Time            `json:"periodEnd,omitempty"`
}

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrSetNotFound      = errors.New("set not found")
	ErrUserNotFound     = errors.New("user not found")
)

// Store is the persistence collaborator behind the coach tools.
type Store interface {
	GetExerciseByName(ctx context.Context, userID, name string) (*Exercise, error)
	ListExercises(ctx context.Context, userID string, includeDeleted bool) ([]*Exercise, error)
	EnsureExercise(ctx context.Context, userID, name string, isTimed bool) (*Exercise, error)
	RenameExercise(ctx context.Context, userID, from, to string) (*Exercise, error)
	SetExerciseDeleted(ctx context.Context, userID, name string, deleted bool) (*Exercise, error)
	SetMuscleGroups(ctx context.Context, userID, name string, groups []string) (*Exercise, error)

	InsertSet(ctx context.Context, userID string, s *SetEntry) error
	DeleteSet(ctx context.Context, userID, setID string) (*SetEntry, error)
	QuerySetsByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*SetEntry, error)
	QuerySetsByExercise(ctx context.Context, userID, exerciseName string, since time.Time) ([]*SetEntry, error)

	GetUser(ctx context.Context, userID string) (*UserProfile, error)
	PatchUser(ctx context.Context, userID string, patch UserPatch) (*UserProfile, error)
}

// Biller reports subscription status; an external collaborator in
// production, a fixture in tests.
type Biller interface {
	GetSubscription(ctx context.Context, userID string) (*Subscription, error)
}
