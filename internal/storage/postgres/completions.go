package postgres

import (
	"context"

	"github.com/julianstephens/habitcontrol/internal/models"
)

func (s *Store) LoadCompletions(ctx context.Context, ownerID string) ([]models.HabitCompletion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, habit_id, date, completed, completed_at
		FROM habit_completions WHERE owner_id = $1 ORDER BY date, habit_id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := []models.HabitCompletion{}
	for rows.Next() {
		var c models.HabitCompletion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.Date, &c.Completed, &c.CompletedAt); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (s *Store) SaveCompletion(ctx context.Context, ownerID string, c models.HabitCompletion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_completions (id, owner_id, habit_id, date, completed, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (habit_id, date) DO UPDATE SET
			completed = EXCLUDED.completed,
			completed_at = EXCLUDED.completed_at`,
		c.ID, ownerID, c.HabitID, c.Date, c.Completed, c.CompletedAt,
	)
	return err
}

func (s *Store) DeleteCompletionsForHabit(ctx context.Context, ownerID, habitID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM habit_completions WHERE habit_id = $1 AND owner_id = $2", habitID, ownerID)
	return err
}
