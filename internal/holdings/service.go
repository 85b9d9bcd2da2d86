package holdings

import (
	"context"
	"time"

	"folio-backend/internal/models"
	"folio-backend/internal/portfolio"
	"folio-backend/internal/store"

	"gorm.io/gorm"
)

// Service serves reconciled holdings to read-side consumers. It never writes.
type Service struct {
	DB *gorm.DB
}

// Latest returns, per asset type, the holdings from that type's most recent
// snapshot date.
func (s *Service) Latest(ctx context.Context) ([]models.Holding, error) {
	return store.New(s.DB).LatestHoldings(ctx)
}

// At returns holdings for a specific snapshot date.
func (s *Service) At(ctx context.Context, date time.Time) ([]models.Holding, error) {
	return store.New(s.DB).HoldingsAt(ctx, date)
}

// Performers returns the top or bottom n holdings by unrealized P&L
// percentage over the latest holdings.
func (s *Service) Performers(ctx context.Context, n int, bottom bool) ([]models.Holding, error) {
	latest, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if bottom {
		return portfolio.BottomPerformers(latest, n), nil
	}
	return portfolio.TopPerformers(latest, n), nil
}

// Allocation returns per-type portfolio shares over the latest holdings.
func (s *Service) Allocation(ctx context.Context) ([]portfolio.Allocation, error) {
	latest, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return portfolio.AssetAllocation(latest), nil
}
