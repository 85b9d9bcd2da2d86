package portfolio

import (
	"math"
	"sort"
	"time"

	"folio-backend/internal/models"
)

// TopPerformers returns up to n holdings with the highest unrealized P&L
// percentage.
func TopPerformers(holdings []models.Holding, n int) []models.Holding {
	return performers(holdings, n, func(a, b models.Holding) bool {
		return a.UnrealizedPLPct > b.UnrealizedPLPct
	})
}

// BottomPerformers returns up to n holdings with the lowest unrealized P&L
// percentage.
func BottomPerformers(holdings []models.Holding, n int) []models.Holding {
	return performers(holdings, n, func(a, b models.Holding) bool {
		return a.UnrealizedPLPct < b.UnrealizedPLPct
	})
}

func performers(holdings []models.Holding, n int, less func(a, b models.Holding) bool) []models.Holding {
	if n <= 0 || len(holdings) == 0 {
		return nil
	}
	sorted := make([]models.Holding, len(holdings))
	copy(sorted, holdings)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// Allocation is one asset type's share of the portfolio.
type Allocation struct {
	Type       models.HoldingType `json:"type"`
	Value      float64            `json:"value"`
	Percentage float64            `json:"percentage"`
}

// AssetAllocation groups current value by type, largest first. Types absent
// from the batch are omitted.
func AssetAllocation(holdings []models.Holding) []Allocation {
	if len(holdings) == 0 {
		return nil
	}
	byType := make(map[models.HoldingType]float64)
	var total float64
	for _, h := range holdings {
		byType[h.Type] += h.CurrentValue
		total += h.CurrentValue
	}
	out := make([]Allocation, 0, len(byType))
	for _, t := range models.AllHoldingTypes() {
		v, ok := byType[t]
		if !ok {
			continue
		}
		a := Allocation{Type: t, Value: v}
		if total > 0 {
			a.Percentage = v / total * 100
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// MonthlyChange is one snapshot row annotated with its month-over-month move.
type MonthlyChange struct {
	SnapshotDate  time.Time `json:"snapshot_date"`
	Month         string    `json:"month"`
	TotalValue    float64   `json:"total_value"`
	StocksValue   float64   `json:"stocks_value"`
	MFValue       float64   `json:"mf_value"`
	TotalInvested float64   `json:"total_invested"`
	TotalPL       float64   `json:"total_pl"`
	TotalPLPct    float64   `json:"total_pl_pct"`
	MoMChange     float64   `json:"mom_change"`
	MoMChangePct  float64   `json:"mom_change_pct"`
}

// MonthlyChanges computes month-over-month deltas from snapshots, oldest
// first. The first row has zero change.
func MonthlyChanges(snapshots []models.Snapshot) []MonthlyChange {
	if len(snapshots) == 0 {
		return nil
	}
	sorted := make([]models.Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SnapshotDate.Before(sorted[j].SnapshotDate)
	})

	out := make([]MonthlyChange, len(sorted))
	for i, s := range sorted {
		c := MonthlyChange{
			SnapshotDate:  s.SnapshotDate,
			Month:         s.SnapshotDate.Format("Jan 2006"),
			TotalValue:    s.TotalValue,
			StocksValue:   s.StocksValue,
			MFValue:       s.MFValue,
			TotalInvested: s.TotalInvested,
			TotalPL:       s.TotalPL,
			TotalPLPct:    s.TotalPLPct,
		}
		if i > 0 {
			prev := sorted[i-1].TotalValue
			c.MoMChange = s.TotalValue - prev
			if prev != 0 {
				c.MoMChangePct = c.MoMChange / prev * 100
			}
		}
		out[i] = c
	}
	return out
}

// AnnualizedReturn approximates XIRR from aggregate invested and current
// values over [first, last]. Zero when the span or invested amount is zero.
func AnnualizedReturn(totalInvested, currentValue float64, first, last time.Time) float64 {
	if totalInvested <= 0 {
		return 0
	}
	years := last.Sub(first).Hours() / 24 / 365.25
	if years <= 0 {
		return 0
	}
	simple := (currentValue - totalInvested) / totalInvested
	if 1+simple <= 0 {
		return -100
	}
	return (math.Pow(1+simple, 1/years) - 1) * 100
}
