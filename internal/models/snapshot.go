package models

import (
	"time"
)

// Snapshot is the single aggregate-summary record for one snapshot date.
// At most one row exists per date (unique index); its totals are always
// recomputed from the holdings at that date after a merge.
type Snapshot struct {
	ID              uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SnapshotDate    time.Time `gorm:"column:snapshot_date;uniqueIndex;not null" json:"snapshot_date"`
	TotalValue      float64   `gorm:"column:total_value;not null" json:"total_value"`
	StocksValue     float64   `gorm:"column:stocks_value;default:0" json:"stocks_value"`
	MFValue         float64   `gorm:"column:mf_value;default:0" json:"mf_value"`
	USStocksValue   float64   `gorm:"column:us_stocks_value;default:0" json:"us_stocks_value"`
	CryptoValue     float64   `gorm:"column:crypto_value;default:0" json:"crypto_value"`
	TotalInvested   float64   `gorm:"column:total_invested;not null" json:"total_invested"`
	TotalPL         float64   `gorm:"column:total_pl;not null" json:"total_pl"`
	TotalPLPct      float64   `gorm:"column:total_pl_pct;not null" json:"total_pl_pct"`
	BenchmarkNifty  *float64  `gorm:"column:benchmark_nifty" json:"benchmark_nifty"`
	BenchmarkSensex *float64  `gorm:"column:benchmark_sensex" json:"benchmark_sensex"`
}

func (Snapshot) TableName() string {
	return "snapshots"
}
