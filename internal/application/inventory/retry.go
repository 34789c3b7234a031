package inventory

import (
	"context"
	"errors"

	"github.com/ims/backend/internal/domain/shared"
)

// maxConflictRetries bounds how often a unit of work is retried after an
// optimistic lock conflict before the conflict is surfaced to the caller.
// Each lost round means another writer committed, so a handful of retries
// lets a loser observe the final state instead of reporting a conflict
const maxConflictRetries = 5

// RunWithConflictRetry executes fn and retries it when it fails with a
// concurrency conflict. Each attempt must re-read its aggregates, which the
// transaction-scoped units of work do by construction.
func RunWithConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}
