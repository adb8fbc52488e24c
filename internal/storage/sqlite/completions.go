package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitcontrol/internal/models"
)

func (s *Store) LoadCompletions(ctx context.Context, ownerID string) ([]models.HabitCompletion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, habit_id, date, completed, completed_at
		FROM habit_completions WHERE owner_id = ? ORDER BY date, habit_id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := []models.HabitCompletion{}
	for rows.Next() {
		var (
			c           models.HabitCompletion
			completed   int
			completedAt string
		)
		if err := rows.Scan(&c.ID, &c.HabitID, &c.Date, &completed, &completedAt); err != nil {
			return nil, err
		}
		c.Completed = completed != 0
		c.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completed_at for completion %s: %w", c.ID, err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// SaveCompletion inserts c or replaces the record for the same habit and date.
func (s *Store) SaveCompletion(ctx context.Context, ownerID string, c models.HabitCompletion) error {
	completed := 0
	if c.Completed {
		completed = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_completions (id, owner_id, habit_id, date, completed, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, date) DO UPDATE SET
			completed = excluded.completed,
			completed_at = excluded.completed_at`,
		c.ID, ownerID, c.HabitID, c.Date, completed, c.CompletedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (s *Store) DeleteCompletionsForHabit(ctx context.Context, ownerID, habitID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM habit_completions WHERE habit_id = ? AND owner_id = ?", habitID, ownerID)
	return err
}
