package uploads

import (
	"context"
	"strings"
	"time"

	"folio-backend/internal/models"
	"folio-backend/internal/portfolio"
	"folio-backend/internal/snapshot"
	"folio-backend/internal/store"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// BenchmarkSource supplies optional index values for the snapshot row.
// Implementations must degrade to nil values instead of failing.
type BenchmarkSource interface {
	Benchmarks(ctx context.Context) (nifty, sensex *float64)
}

// Service commits parsed holdings batches: merge, then recompute the summary
// over everything at the final date and persist the snapshot, then append an
// audit entry. The two steps are deliberately separate so the summary save
// can be retried without redoing the reconciliation.
type Service struct {
	DB         *gorm.DB
	Engine     *snapshot.Engine
	Benchmarks BenchmarkSource // optional
}

// CommitInput is one normalized batch from a parser or scanner.
type CommitInput struct {
	Date         time.Time
	CoveredTypes []models.HoldingType
	Filename     string
	FileType     string // audit tag; defaults to the covered types
	Holdings     []models.Holding
}

// CommitResult reports the merge outcome plus the recomputed summary.
type CommitResult struct {
	snapshot.MergeResult
	TotalHoldings int               `json:"total_holdings"`
	Summary       portfolio.Summary `json:"summary"`
}

// Commit runs the full ingestion sequence for one batch.
func (s *Service) Commit(ctx context.Context, in CommitInput) (CommitResult, error) {
	res, err := s.Engine.Merge(ctx, in.Date, in.Holdings, in.CoveredTypes)
	if err != nil {
		s.audit(ctx, in, models.Day(in.Date), len(in.Holdings), err)
		return CommitResult{}, err
	}

	st := store.New(s.DB)
	all, err := st.HoldingsAt(ctx, res.FinalDate)
	if err != nil {
		// The merge committed but the summary handoff did not; the audit
		// trail has to show the half-finished state.
		s.audit(ctx, in, res.FinalDate, res.New, err)
		return CommitResult{}, err
	}
	sum := portfolio.Summarize(all)

	var nifty, sensex *float64
	if s.Benchmarks != nil {
		nifty, sensex = s.Benchmarks.Benchmarks(ctx)
	}

	snap := models.Snapshot{
		SnapshotDate:    res.FinalDate,
		TotalValue:      sum.TotalValue,
		StocksValue:     sum.StocksValue,
		MFValue:         sum.MFValue,
		USStocksValue:   sum.USStocksValue,
		CryptoValue:     sum.CryptoValue,
		TotalInvested:   sum.TotalInvested,
		TotalPL:         sum.TotalPL,
		TotalPLPct:      sum.TotalPLPct,
		BenchmarkNifty:  nifty,
		BenchmarkSensex: sensex,
	}
	if err := st.WriteSnapshot(ctx, &snap); err != nil {
		s.audit(ctx, in, res.FinalDate, res.New, err)
		return CommitResult{}, err
	}

	s.audit(ctx, in, res.FinalDate, res.New, nil)
	return CommitResult{MergeResult: res, TotalHoldings: len(all), Summary: sum}, nil
}

// audit appends one upload-log entry. Best-effort: the log is observational
// and a failed write never fails the commit.
func (s *Service) audit(ctx context.Context, in CommitInput, snapshotDate time.Time, count int, commitErr error) {
	entry := models.UploadLog{
		UploadDate:   time.Now().UTC(),
		SnapshotDate: snapshotDate,
		Filename:     in.Filename,
		FileType:     in.FileType,
		RecordsCount: count,
		Status:       models.UploadStatusSuccess,
	}
	if entry.FileType == "" {
		entry.FileType = joinTypes(in.CoveredTypes)
	}
	if commitErr != nil {
		entry.Status = models.UploadStatusError
		msg := commitErr.Error()
		if len(msg) > 500 {
			msg = msg[:500]
		}
		entry.ErrorMessage = &msg
	}
	if err := store.New(s.DB).LogUpload(ctx, &entry); err != nil {
		log.Error().Err(err).Str("filename", in.Filename).Msg("upload audit write failed")
	}
}

// History returns recent upload-log entries.
func (s *Service) History(ctx context.Context, limit int) ([]models.UploadLog, error) {
	if limit <= 0 {
		limit = 20
	}
	return store.New(s.DB).UploadLogs(ctx, limit)
}

func joinTypes(types []models.HoldingType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}
