package sqlite

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/julianstephens/habitcontrol/internal/errors"
	"github.com/julianstephens/habitcontrol/internal/models"
	"github.com/julianstephens/habitcontrol/internal/utils"
)

func (s *Store) LoadHabits(ctx context.Context, ownerID string) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, time, repeat_type, repeat_value, repeat_days, repeat_dates, created_at, updated_at
		FROM habits WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		var (
			h                    models.Habit
			repeatType           string
			days, dates          string
			createdAt, updatedAt string
		)
		if err := rows.Scan(&h.ID, &h.Name, &h.Time, &repeatType, &h.RepeatValue, &days, &dates, &createdAt, &updatedAt); err != nil {
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

		h.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
		}
		h.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at for habit %s: %w", h.ID, err)
		}

		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) SaveHabit(ctx context.Context, ownerID string, habit models.Habit) error {
	days, dates := recurrenceColumns(habit)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (id, owner_id, name, time, repeat_type, repeat_value, repeat_days, repeat_dates, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, ownerID, habit.Name, habit.Time, string(habit.RepeatType()), habit.RepeatValue,
		days, dates,
		habit.CreatedAt.Format(time.RFC3339Nano), habit.UpdatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (s *Store) UpdateHabit(ctx context.Context, ownerID string, habit models.Habit) error {
	days, dates := recurrenceColumns(habit)
	res, err := s.db.ExecContext(ctx, `
		UPDATE habits
		SET name = ?, time = ?, repeat_type = ?, repeat_value = ?, repeat_days = ?, repeat_dates = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		habit.Name, habit.Time, string(habit.RepeatType()), habit.RepeatValue, days, dates,
		habit.UpdatedAt.Format(time.RFC3339Nano),
		habit.ID, ownerID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &apperrors.NotFoundError{Kind: "habit", ID: habit.ID}
	}
	return nil
}

func (s *Store) DeleteHabit(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM habits WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
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
