package snapshot

import (
	"context"
	"time"

	"folio-backend/internal/models"
	"folio-backend/internal/store"
)

// monthWindow returns the inclusive first day of target's calendar month and
// the exclusive first day of the next month. AddDate normalizes December
// into January of the following year.
func monthWindow(target time.Time) (first, next time.Time) {
	y, m, _ := models.Day(target).Date()
	first = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0)
}

// FindPeriod resolves whether an existing snapshot falls in the same calendar
// month as target, returning its date. When several exist (should not happen
// after a merge) the most recent wins. Read-only.
func (e *Engine) FindPeriod(ctx context.Context, target time.Time) (time.Time, bool, error) {
	first, next := monthWindow(target)
	return store.New(e.DB).LatestSnapshotDateIn(ctx, first, next)
}
