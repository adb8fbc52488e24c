package habits

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/julianstephens/habitcontrol/internal/errors"
	"github.com/julianstephens/habitcontrol/internal/logger"
)

// withRetry runs fn up to s.retries times. Not-found errors and context
// cancellation are returned as they are; any other failure that outlives the
// attempts comes back as a *errors.PersistenceError.
func (s *Store) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= s.retries; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if ctx.Err() != nil {
			return &apperrors.PersistenceError{Op: op, Err: ctx.Err()}
		}

		logger.Warn("Persistence call failed", "op", op, "attempt", attempt, "of", s.retries, "error", err)
		if attempt == s.retries {
			break
		}

		select {
		case <-ctx.Done():
			return &apperrors.PersistenceError{Op: op, Err: ctx.Err()}
		case <-time.After(time.Duration(attempt) * s.retryDelay):
		}
	}
	logger.Error("Giving up on persistence call", "op", op, "error", err)
	return &apperrors.PersistenceError{Op: op, Err: err}
}
