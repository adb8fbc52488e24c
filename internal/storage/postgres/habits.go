package postgres

import (
	"context"
	"fmt"

	apperrors "github.com/julianstephens/habitcontrol/internal/errors"
	"github.com/julianstephens/habitcontrol/internal/models"
	"github.com/julianstephens/habitcontrol/internal/utils"
)

func (s *Store) LoadHabits(ctx context.Context, ownerID string) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, time, repeat_type, repeat_value, repeat_days, repeat_dates, created_at, updated_at
		FROM habits WHERE owner_id = $1 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		var (
			h           models.Habit
			repeatType  string
			days, dates string
		)
		if err := rows.Scan(&h.ID, &h.Name, &h.Time, &repeatType, &h.RepeatValue, &days, &dates, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}

		dayList, err := utils.SplitInts(days)
		if err != nil {
			return nil, fmt.Errorf("failed to parse repeat_days for habit %s: %w", h.ID, err)
		}
		dateList, err := utils.SplitInts(dates)
		if err != nil {
			return nil, fmt.Errorf("failed to parse repeat_dates for habit %s: %w", h.ID, err)
		}
		h.Recurrence, err = models.NewRecurrence(models.RepeatType(repeatType), dayList, dateList)
		if err != nil {
			return nil, fmt.Errorf("habit %s: %w", h.ID, err)
		}

		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) SaveHabit(ctx context.Context, ownerID string, habit models.Habit) error {
	days, dates := recurrenceColumns(habit)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (id, owner_id, name, time, repeat_type, repeat_value, repeat_days, repeat_dates, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		habit.ID, ownerID, habit.Name, habit.Time, string(habit.RepeatType()), habit.RepeatValue,
		days, dates, habit.CreatedAt, habit.UpdatedAt,
	)
	return err
}

func (s *Store) UpdateHabit(ctx context.Context, ownerID string, habit models.Habit) error {
	days, dates := recurrenceColumns(habit)
	res, err := s.db.ExecContext(ctx, `
		UPDATE habits
		SET name = $1, time = $2, repeat_type = $3, repeat_value = $4, repeat_days = $5, repeat_dates = $6, updated_at = $7
		WHERE id = $8 AND owner_id = $9`,
		habit.Name, habit.Time, string(habit.RepeatType()), habit.RepeatValue, days, dates,
		habit.UpdatedAt, habit.ID, ownerID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return &apperrors.NotFoundError{Kind: "habit", ID: habit.ID}
	}
	return nil
}

// DeleteHabit removes the habit; its completions go with it through the
// foreign key cascade.
func (s *Store) DeleteHabit(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM habits WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return &apperrors.NotFoundError{Kind: "habit", ID: id}
	}
	return nil
}

func recurrenceColumns(habit models.Habit) (days, dates string) {
	switch rec := habit.Recurrence.(type) {
	case models.Weekly:
		days = utils.JoinInts(rec.Days.Ints())
	case models.Monthly:
		dates = utils.JoinInts(rec.Days.Ints())
	}
	return days, dates
}
