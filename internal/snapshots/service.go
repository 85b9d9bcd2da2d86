package snapshots

import (
	"context"
	"time"

	"folio-backend/internal/models"
	"folio-backend/internal/portfolio"
	"folio-backend/internal/store"

	"gorm.io/gorm"
)

// Service serves snapshot history and owns destructive data management.
type Service struct {
	DB *gorm.DB
}

// List returns up to limit snapshots, most recent first.
func (s *Service) List(ctx context.Context, limit int) ([]models.Snapshot, error) {
	if limit <= 0 {
		limit = 12
	}
	return store.New(s.DB).Snapshots(ctx, limit)
}

// Trends is the time-series view over snapshots.
type Trends struct {
	Changes          []portfolio.MonthlyChange `json:"changes"`
	AnnualizedReturn float64                   `json:"annualized_return"`
}

// Trends computes month-over-month changes plus an approximate annualized
// return from the earliest to the latest snapshot in range.
func (s *Service) Trends(ctx context.Context, limit int) (Trends, error) {
	snaps, err := s.List(ctx, limit)
	if err != nil {
		return Trends{}, err
	}
	changes := portfolio.MonthlyChanges(snaps)
	t := Trends{Changes: changes}
	if len(changes) > 1 {
		first := changes[0]
		last := changes[len(changes)-1]
		t.AnnualizedReturn = portfolio.AnnualizedReturn(
			last.TotalInvested, last.TotalValue, first.SnapshotDate, last.SnapshotDate)
	}
	return t, nil
}

// Delete removes a snapshot and all holdings at its date.
func (s *Service) Delete(ctx context.Context, date time.Time) error {
	return store.New(s.DB).DeleteSnapshotData(ctx, date)
}

// ClearAll wipes holdings, snapshots, and the upload log.
func (s *Service) ClearAll(ctx context.Context) error {
	return store.New(s.DB).ClearAll(ctx)
}
