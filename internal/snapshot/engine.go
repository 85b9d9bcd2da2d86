package snapshot

import (
	"context"
	"time"

	"folio-backend/internal/models"
	"folio-backend/internal/store"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Engine reconciles a new holdings batch into the store, keeping a single
// consistent snapshot per calendar month. It deletes the stale snapshot row
// but never writes the replacement: the caller recomputes the summary over
// all holdings at the final date and saves it, so that step can be retried
// independently of the merge.
type Engine struct {
	DB *gorm.DB
}

// MergeResult reports what a merge did.
type MergeResult struct {
	// Migrated is the number of existing holdings re-dated to FinalDate
	// because their types were not covered by the batch.
	Migrated int `json:"migrated"`
	// New is the number of holdings written from the batch.
	New int `json:"new"`
	// FinalDate is the canonical date of the merged period, the later of the
	// upload date and any existing snapshot date in the same month.
	FinalDate time.Time `json:"final_date"`
}

// Merge commits a holdings batch tagged with the asset types it covers.
//
// If no snapshot exists in newDate's month the batch is written at newDate.
// If one exists at an earlier date, covered-type holdings there are
// superseded (deleted), uncovered-type holdings are re-dated forward, and
// the stale snapshot is dropped. If one exists at the same or a later date,
// covered-type holdings at that date are replaced in place.
//
// The whole sequence runs in one transaction: a failure leaves the store
// exactly as it was.
func (e *Engine) Merge(ctx context.Context, newDate time.Time, batch []models.Holding, covered []models.HoldingType) (MergeResult, error) {
	if newDate.IsZero() {
		return MergeResult{}, ErrMissingDate
	}
	if err := validateBatch(batch, covered); err != nil {
		return MergeResult{}, err
	}
	newDate = models.Day(newDate)

	var res MergeResult
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := store.New(tx)

		first, next := monthWindow(newDate)
		oldDate, found, err := st.LatestSnapshotDateIn(ctx, first, next)
		if err != nil {
			return err
		}

		final := newDate
		var migrated int64
		if found {
			if oldDate.After(final) {
				final = oldDate
			}
			if !oldDate.Equal(final) {
				// The upload is newer: covered types at oldDate are
				// superseded, everything else moves forward with the period.
				migrated, err = st.RedateHoldings(ctx, oldDate, final, covered)
				if err != nil {
					return err
				}
			} else if len(covered) > 0 {
				// In place: only the covered types are superseded. An empty
				// covered set is authoritative for nothing and deletes nothing.
				if _, err := st.DeleteHoldings(ctx, final, covered...); err != nil {
					return err
				}
			}
			// Totals are stale either way; the caller writes a fresh row.
			if err := st.DeleteSnapshot(ctx, oldDate); err != nil {
				return err
			}
		}

		written, err := st.WriteHoldings(ctx, final, batch)
		if err != nil {
			return err
		}
		res = MergeResult{Migrated: int(migrated), New: written, FinalDate: final}
		return nil
	})
	if err != nil {
		return MergeResult{}, err
	}

	log.Info().
		Time("final_date", res.FinalDate).
		Int("migrated", res.Migrated).
		Int("new", res.New).
		Msg("holdings batch merged")
	return res, nil
}
