// Package habits owns the in-memory habits and completions of the signed-in
// owner and keeps them in step with the backing repositories.
package habits

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/habitcontrol/internal/completion"
	"github.com/julianstephens/habitcontrol/internal/constants"
	apperrors "github.com/julianstephens/habitcontrol/internal/errors"
	"github.com/julianstephens/habitcontrol/internal/logger"
	"github.com/julianstephens/habitcontrol/internal/models"
	"github.com/julianstephens/habitcontrol/internal/scheduler"
	"github.com/julianstephens/habitcontrol/internal/stats"
	"github.com/julianstephens/habitcontrol/internal/storage"
	"github.com/julianstephens/habitcontrol/internal/utils"
	"github.com/julianstephens/habitcontrol/internal/validation"
)

// State is the session lifecycle of a Store.
type State int

const (
	Unauthenticated State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unauthenticated"
	}
}

// Store is safe for concurrent use. Mutations are serialized by writeMu for
// the whole persist-then-apply sequence, so callers observe them in a single
// order and read their own writes. mu guards the in-memory state and is only
// write-locked to apply a persisted change, so reads never wait on storage.
type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex

	habitRepo      storage.HabitRepository
	completionRepo storage.CompletionRepository
	scheduler      *scheduler.Scheduler
	validator      *validation.Validator

	now        func() time.Time
	newID      func() string
	retries    int
	retryDelay time.Duration

	state   State
	session models.Session
	habits  []models.Habit
	log     *completion.Log
}

type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the random id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithRetry sets how many attempts a persistence call gets and the base delay
// between them. The n-th retry waits n*delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(s *Store) {
		if attempts < 1 {
			attempts = 1
		}
		s.retries = attempts
		s.retryDelay = delay
	}
}

func New(habitRepo storage.HabitRepository, completionRepo storage.CompletionRepository, opts ...Option) *Store {
	s := &Store{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		scheduler:      scheduler.New(),
		validator:      validation.New(),
		now:            time.Now,
		newID:          utils.NewID,
		retries:        constants.PersistMaxRetries,
		retryDelay:     constants.PersistRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = completion.NewLog(nil, s.newID)
	return s
}

// NewFromProvider wires a store to a single provider for both repositories.
func NewFromProvider(p storage.Provider, opts ...Option) *Store {
	return New(p, p, opts...)
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Session returns the active session; ok is false when signed out.
func (s *Store) Session() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.state == Ready
}

// SignIn loads the habits and completions of session.OwnerID. On failure the
// store stays signed out.
func (s *Store) SignIn(ctx context.Context, session models.Session) error {
	if strings.TrimSpace(session.OwnerID) == "" {
		return apperrors.ErrAuthenticationRequired
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.clear()
	s.state = Loading
	s.mu.Unlock()
	logger.Debug("Loading habits", "owner", session.OwnerID)

	var habits []models.Habit
	err := s.withRetry(ctx, "load habits", func(ctx context.Context) error {
		var err error
		habits, err = s.habitRepo.LoadHabits(ctx, session.OwnerID)
		return err
	})
	if err != nil {
		s.setState(Unauthenticated)
		return err
	}

	var records []models.HabitCompletion
	err = s.withRetry(ctx, "load completions", func(ctx context.Context) error {
		var err error
		records, err = s.completionRepo.LoadCompletions(ctx, session.OwnerID)
		return err
	})
	if err != nil {
		s.setState(Unauthenticated)
		return err
	}

	s.mu.Lock()
	s.session = session
	s.habits = habits
	s.log = completion.NewLog(records, s.newID)
	s.state = Ready
	s.mu.Unlock()
	logger.Debug("Habit store ready", "owner", session.OwnerID, "habits", len(habits), "completions", len(records))
	return nil
}

// SignOut drops all in-memory state. It waits for a mutation in flight.
func (s *Store) SignOut() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	logger.Debug("Habit store signed out")
}

func (s *Store) clear() {
	s.state = Unauthenticated
	s.session = models.Session{}
	s.habits = nil
	s.log = completion.NewLog(nil, s.newID)
}

func (s *Store) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Store) requireSession() error {
	if s.state != Ready {
		return apperrors.ErrAuthenticationRequired
	}
	return nil
}

// owner returns the signed-in owner id. Callers hold writeMu, so the session
// cannot change before they apply their mutation.
func (s *Store) owner() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.requireSession(); err != nil {
		return "", err
	}
	return s.session.OwnerID, nil
}

func (s *Store) indexOf(id string) int {
	for i, h := range s.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// CreateHabit validates in, persists a new habit and adds it to the store.
func (s *Store) CreateHabit(ctx context.Context, in models.HabitInput) (models.Habit, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	owner, err := s.owner()
	if err != nil {
		return models.Habit{}, err
	}
	if err := s.validator.ValidateInput(in); err != nil {
		return models.Habit{}, err
	}

	now := s.now()
	habit := models.Habit{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		Time:        in.Time,
		Recurrence:  in.Recurrence,
		RepeatValue: in.RepeatValue,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.withRetry(ctx, "save habit", func(ctx context.Context) error {
		return s.habitRepo.SaveHabit(ctx, owner, habit)
	})
	if err != nil {
		return models.Habit{}, err
	}

	s.mu.Lock()
	s.habits = append(s.habits, habit)
	s.mu.Unlock()
	logger.Info("Created habit", "id", habit.ID, "name", habit.Name)
	return habit, nil
}

// UpdateHabit replaces the editable fields of the habit with habit.ID. The
// creation time is kept and the update time refreshed.
func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) (models.Habit, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	owner, err := s.owner()
	if err != nil {
		return models.Habit{}, err
	}
	updated, ok := s.Habit(habit.ID)
	if !ok {
		return models.Habit{}, &apperrors.NotFoundError{Kind: "habit", ID: habit.ID}
	}
	if err := s.validator.ValidateInput(habit.Input()); err != nil {
		return models.Habit{}, err
	}

	updated.Name = strings.TrimSpace(habit.Name)
	updated.Time = habit.Time
	updated.Recurrence = habit.Recurrence
	updated.RepeatValue = habit.RepeatValue
	updated.UpdatedAt = s.now()

	err = s.withRetry(ctx, "update habit", func(ctx context.Context) error {
		return s.habitRepo.UpdateHabit(ctx, owner, updated)
	})
	if err != nil {
		return models.Habit{}, err
	}

	s.mu.Lock()
	if i := s.indexOf(updated.ID); i >= 0 {
		s.habits[i] = updated
	}
	s.mu.Unlock()
	logger.Info("Updated habit", "id", updated.ID)
	return updated, nil
}

// DeleteHabit removes the habit and all of its completions. Completions are
// removed first; if the habit itself then fails to delete, the completion
// removal is still reflected in memory so it matches the backing store.
func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	owner, err := s.owner()
	if err != nil {
		return err
	}
	if _, ok := s.Habit(id); !ok {
		return &apperrors.NotFoundError{Kind: "habit", ID: id}
	}

	err = s.withRetry(ctx, "delete completions", func(ctx context.Context) error {
		return s.completionRepo.DeleteCompletionsForHabit(ctx, owner, id)
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	removed := s.log.RemoveByHabit(id)
	s.mu.Unlock()

	err = s.withRetry(ctx, "delete habit", func(ctx context.Context) error {
		return s.habitRepo.DeleteHabit(ctx, owner, id)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.habits = append(s.habits[:i:i], s.habits[i+1:]...)
	}
	s.mu.Unlock()
	logger.Info("Deleted habit", "id", id, "completions", removed)
	return nil
}

// ToggleCompletion records whether the habit was done on date. Repeating the
// call with the same value leaves a single record for (habit, date).
func (s *Store) ToggleCompletion(ctx context.Context, habitID string, date time.Time, completed bool) (models.HabitCompletion, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	if err := s.requireSession(); err != nil {
		s.mu.RUnlock()
		return models.HabitCompletion{}, err
	}
	if s.indexOf(habitID) < 0 {
		s.mu.RUnlock()
		return models.HabitCompletion{}, &apperrors.NotFoundError{Kind: "habit", ID: habitID}
	}
	owner := s.session.OwnerID
	record := s.log.Prepare(habitID, utils.FormatDate(date), completed, s.now())
	s.mu.RUnlock()

	err := s.withRetry(ctx, "save completion", func(ctx context.Context) error {
		return s.completionRepo.SaveCompletion(ctx, owner, record)
	})
	if err != nil {
		return models.HabitCompletion{}, err
	}

	s.mu.Lock()
	s.log.Put(record)
	s.mu.Unlock()
	logger.Debug("Toggled completion", "habit", habitID, "date", record.Date, "completed", completed)
	return record, nil
}

// GetHabitsForDate returns the habits due on date with their completion
// state, ordered by time of day.
func (s *Store) GetHabitsForDate(date time.Time) []models.HabitWithStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scheduler.Project(s.habits, s.log, date)
}

func (s *Store) GetTodayHabits() []models.HabitWithStatus {
	return s.GetHabitsForDate(s.now())
}

// GetHistory projects days consecutive dates starting at start.
func (s *Store) GetHistory(start time.Time, days int) []scheduler.Day {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scheduler.History(s.habits, s.log, start, days)
}

// GetCompletionRate returns the share of logged records of habitID marked done.
func (s *Store) GetCompletionRate(habitID string) float64 {
	return s.GetSummary(habitID).Rate
}

func (s *Store) GetSummary(habitID string) stats.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.Summarize(habitID, s.log.ForHabit(habitID))
}

// Habits returns a copy of the habits in creation order.
func (s *Store) Habits() []models.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Habit, len(s.habits))
	copy(out, s.habits)
	return out
}

// Completions returns a copy of every completion record.
func (s *Store) Completions() []models.HabitCompletion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.All()
}

func (s *Store) Habit(id string) (models.Habit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.habits[i], true
	}
	return models.Habit{}, false
}

// Resolve finds a habit by id, or else by case-insensitive name.
func (s *Store) Resolve(ref string) (models.Habit, error) {
	if h, ok := s.Habit(ref); ok {
		return h, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.habits {
		if strings.EqualFold(h.Name, strings.TrimSpace(ref)) {
			return h, nil
		}
	}
	return models.Habit{}, &apperrors.NotFoundError{Kind: "habit", ID: ref}
}

// Now returns the store's clock reading.
func (s *Store) Now() time.Time {
	return s.now()
}
