package coach

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/go-go-golems/repcoach/pkg/blocks"
)

// MemoryStore is a thread-safe in-memory Store, used by tests and the
// demo server.
type MemoryStore struct {
	mu        sync.RWMutex
	exercises map[string]map[string]*Exercise // userID -> lower(name) -> exercise
	sets      map[string][]*SetEntry          // userID -> sets, insertion order
	users     map[string]*UserProfile
	now       func() time.Time
}

type MemoryStoreOption func(*MemoryStore)

// WithStoreClock overrides the time source, for tests.
func WithStoreClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		exercises: make(map[string]map[string]*Exercise),
		sets:      make(map[string][]*SetEntry),
		users:     make(map[string]*UserProfile),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func exerciseKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *MemoryStore) userExercises(userID string) map[string]*Exercise {
	m, ok := s.exercises[userID]
	if !ok {
		m = make(map[string]*Exercise)
		s.exercises[userID] = m
	}
	return m
}

func (s *MemoryStore) GetExerciseByName(ctx context.Context, userID, name string) (*Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ex, ok := s.exercises[userID][exerciseKey(name)]
	if !ok {
		return nil, errors.Wrap(ErrExerciseNotFound, name)
	}
	cp := *ex
	return &cp, nil
}

func (s *MemoryStore) ListExercises(ctx context.Context, userID string, includeDeleted bool) ([]*Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Exercise, 0, len(s.exercises[userID]))
	for _, ex := range s.exercises[userID] {
		if ex.Deleted && !includeDeleted {
			continue
		}
		cp := *ex
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) EnsureExercise(ctx context.Context, userID, name string, isTimed bool) (*Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.userExercises(userID)
	if ex, ok := m[exerciseKey(name)]; ok {
		if ex.Deleted {
			ex.Deleted = false
		}
		if isTimed {
			ex.IsTimed = true
		}
		cp := *ex
		return &cp, nil
	}
	ex := &Exercise{
		ID:        uuid.NewString(),
		Name:      name,
		IsTimed:   isTimed,
		CreatedAt: s.now(),
	}
	m[exerciseKey(name)] = ex
	cp := *ex
	return &cp, nil
}

func (s *MemoryStore) RenameExercise(ctx context.Context, userID, from, to string) (*Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.userExercises(userID)
	ex, ok := m[exerciseKey(from)]
	if !ok {
		return nil, errors.Wrap(ErrExerciseNotFound, from)
	}
	if _, taken := m[exerciseKey(to)]; taken && exerciseKey(to) != exerciseKey(from) {
		return nil, errors.Errorf("an exercise named %q already exists", to)
	}
	delete(m, exerciseKey(from))
	ex.Name = to
	m[exerciseKey(to)] = ex
	for _, se := range s.sets[userID] {
		if se.ExerciseID == ex.ID {
			se.ExerciseName = to
		}
	}
	cp := *ex
	return &cp, nil
}

func (s *MemoryStore) SetExerciseDeleted(ctx context.Context, userID, name string, deleted bool) (*Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ex, ok := s.exercises[userID][exerciseKey(name)]
	if !ok {
		return nil, errors.Wrap(ErrExerciseNotFound, name)
	}
	ex.Deleted = deleted
	cp := *ex
	return &cp, nil
}

func (s *MemoryStore) SetMuscleGroups(ctx context.Context, userID, name string, groups []string) (*Exercise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ex, ok := s.exercises[userID][exerciseKey(name)]
	if !ok {
		return nil, errors.Wrap(ErrExerciseNotFound, name)
	}
	ex.MuscleGroups = append([]string(nil), groups...)
	cp := *ex
	return &cp, nil
}

func (s *MemoryStore) InsertSet(ctx context.Context, userID string, entry *SetEntry) error {
	if entry == nil {
		return errors.New("set entry cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = s.now()
	}
	cp := *entry
	s.sets[userID] = append(s.sets[userID], &cp)
	return nil
}

func (s *MemoryStore) DeleteSet(ctx context.Context, userID, setID string) (*SetEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.sets[userID]
	for i, se := range list {
		if se.ID == setID {
			s.sets[userID] = append(list[:i], list[i+1:]...)
			cp := *se
			return &cp, nil
		}
	}
	return nil, errors.Wrap(ErrSetNotFound, setID)
}

func (s *MemoryStore) QuerySetsByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*SetEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*SetEntry
	for _, se := range s.sets[userID] {
		if se.PerformedAt.Before(from) || !se.PerformedAt.Before(to) {
			continue
		}
		cp := *se
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PerformedAt.Before(out[j].PerformedAt) })
	return out, nil
}

func (s *MemoryStore) QuerySetsByExercise(ctx context.Context, userID, exerciseName string, since time.Time) ([]*SetEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := exerciseKey(exerciseName)
	var out []*SetEntry
	for _, se := range s.sets[userID] {
		if exerciseKey(se.ExerciseName) != key || se.PerformedAt.Before(since) {
			continue
		}
		cp := *se
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PerformedAt.Before(out[j].PerformedAt) })
	return out, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, userID string) (*UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.ensureUser(userID)
	return &cp, nil
}

func (s *MemoryStore) PatchUser(ctx context.Context, userID string, patch UserPatch) (*UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.ensureUser(userID)
	if patch.Unit != nil {
		u.Unit = *patch.Unit
	}
	if patch.SoundEnabled != nil {
		u.SoundEnabled = *patch.SoundEnabled
	}
	if patch.TrainingSplit != nil {
		u.TrainingSplit = *patch.TrainingSplit
	}
	if patch.CoachNotes != nil {
		u.CoachNotes = *patch.CoachNotes
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) ensureUser(userID string) *UserProfile {
	u, ok := s.users[userID]
	if !ok {
		u = &UserProfile{ID: userID, Unit: "lbs", SoundEnabled: true}
		s.users[userID] = u
	}
	return u
}

// MemoryBiller is a fixture Biller; unknown users are on trial.
type MemoryBiller struct {
	mu   sync.RWMutex
	subs map[string]*Subscription
}

func NewMemoryBiller() *MemoryBiller {
	return &MemoryBiller{subs: make(map[string]*Subscription)}
}

func (b *MemoryBiller) SetSubscription(userID string, sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := sub
	b.subs[userID] = &cp
}

func (b *MemoryBiller) GetSubscription(ctx context.Context, userID string) (*Subscription, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if sub, ok := b.subs[userID]; ok {
		cp := *sub
		return &cp, nil
	}
	return &Subscription{Status: blocks.BillingTrial, TrialDaysRemaining: 14}, nil
}
