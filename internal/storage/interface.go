package storage

import (
	"context"

	"github.com/julianstephens/habitcontrol/internal/migration"
	"github.com/julianstephens/habitcontrol/internal/models"
)

// HabitRepository persists habit definitions per owner.
type HabitRepository interface {
	LoadHabits(ctx context.Context, ownerID string) ([]models.Habit, error)
	SaveHabit(ctx context.Context, ownerID string, habit models.Habit) error
	UpdateHabit(ctx context.Context, ownerID string, habit models.Habit) error
	DeleteHabit(ctx context.Context, ownerID, id string) error
}

// CompletionRepository persists completion records per owner. SaveCompletion
// updates any record for the same habit and date in place; the stored record
// keeps its id.
type CompletionRepository interface {
	LoadCompletions(ctx context.Context, ownerID string) ([]models.HabitCompletion, error)
	SaveCompletion(ctx context.Context, ownerID string, c models.HabitCompletion) error
	DeleteCompletionsForHabit(ctx context.Context, ownerID, habitID string) error
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	HabitRepository
	CompletionRepository

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by SQL backed providers.
type Migrator interface {
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	MigrationStatus(ctx context.Context) (migration.Status, error)
}
