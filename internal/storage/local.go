package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/julianstephens/habitcontrol/internal/constants"
	apperrors "github.com/julianstephens/habitcontrol/internal/errors"
	"github.com/julianstephens/habitcontrol/internal/models"
)

// LocalStore keeps each owner's habits and completions as JSON arrays in a
// key-value store, under "@habits:<owner>" and "@completions:<owner>".
type LocalStore struct {
	kv  KV
	dir string
	mu  sync.Mutex
}

// NewLocalStore returns a store over a FileKV rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{kv: NewFileKV(dir), dir: dir}
}

// NewKVStore returns a store over an arbitrary KV.
func NewKVStore(kv KV) *LocalStore {
	return &LocalStore{kv: kv}
}

func (s *LocalStore) Init() error {
	if s.dir == "" {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

func (s *LocalStore) Load() error {
	if s.dir == "" {
		return nil
	}
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitcontrol init' first")
	}
	return nil
}

func (s *LocalStore) Close() error {
	return nil
}

func (s *LocalStore) GetConfigPath() string {
	return s.dir
}

func habitsKey(ownerID string) string {
	return constants.HabitsKey + ":" + ownerID
}

func completionsKey(ownerID string) string {
	return constants.CompletionsKey + ":" + ownerID
}

func loadJSON[T any](ctx context.Context, kv KV, key string) ([]T, error) {
	data, ok, err := kv.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if !ok {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return out, nil
}

func saveJSON[T any](ctx context.Context, kv KV, key string, values []T) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return kv.Save(ctx, key, data)
}

func (s *LocalStore) LoadHabits(ctx context.Context, ownerID string) ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadJSON[models.Habit](ctx, s.kv, habitsKey(ownerID))
}

func (s *LocalStore) SaveHabit(ctx context.Context, ownerID string, habit models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := habitsKey(ownerID)
	habits, err := loadJSON[models.Habit](ctx, s.kv, key)
	if err != nil {
		return err
	}
	for _, h := range habits {
		if h.ID == habit.ID {
			return fmt.Errorf("habit %s already exists", habit.ID)
		}
	}
	return saveJSON(ctx, s.kv, key, append(habits, habit))
}

func (s *LocalStore) UpdateHabit(ctx context.Context, ownerID string, habit models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := habitsKey(ownerID)
	habits, err := loadJSON[models.Habit](ctx, s.kv, key)
	if err != nil {
		return err
	}
	for i := range habits {
		if habits[i].ID == habit.ID {
			habits[i] = habit
			return saveJSON(ctx, s.kv, key, habits)
		}
	}
	return &apperrors.NotFoundError{Kind: "habit", ID: habit.ID}
}

func (s *LocalStore) DeleteHabit(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := habitsKey(ownerID)
	habits, err := loadJSON[models.Habit](ctx, s.kv, key)
	if err != nil {
		return err
	}
	for i := range habits {
		if habits[i].ID == id {
			return saveJSON(ctx, s.kv, key, append(habits[:i], habits[i+1:]...))
		}
	}
	return &apperrors.NotFoundError{Kind: "habit", ID: id}
}

func (s *LocalStore) LoadCompletions(ctx context.Context, ownerID string) ([]models.HabitCompletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadJSON[models.HabitCompletion](ctx, s.kv, completionsKey(ownerID))
}

func (s *LocalStore) SaveCompletion(ctx context.Context, ownerID string, c models.HabitCompletion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := completionsKey(ownerID)
	completions, err := loadJSON[models.HabitCompletion](ctx, s.kv, key)
	if err != nil {
		return err
	}
	for i := range completions {
		if completions[i].HabitID == c.HabitID && completions[i].Date == c.Date {
			c.ID = completions[i].ID
			completions[i] = c
			return saveJSON(ctx, s.kv, key, completions)
		}
	}
	return saveJSON(ctx, s.kv, key, append(completions, c))
}

func (s *LocalStore) DeleteCompletionsForHabit(ctx context.Context, ownerID, habitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := completionsKey(ownerID)
	completions, err := loadJSON[models.HabitCompletion](ctx, s.kv, key)
	if err != nil {
		return err
	}
	kept := completions[:0]
	for _, c := range completions {
		if c.HabitID != habitID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(completions) {
		return nil
	}
	return saveJSON(ctx, s.kv, key, kept)
}
