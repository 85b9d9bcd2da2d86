package portfolio

import (
	"folio-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Summary holds portfolio totals and per-type subtotals for one snapshot.
type Summary struct {
	TotalValue    float64 `json:"total_value"`
	TotalInvested float64 `json:"total_invested"`
	TotalPL       float64 `json:"total_pl"`
	TotalPLPct    float64 `json:"total_pl_pct"`
	StocksValue   float64 `json:"stocks_value"`
	MFValue       float64 `json:"mf_value"`
	USStocksValue float64 `json:"us_stocks_value"`
	CryptoValue   float64 `json:"crypto_value"`
}

// Summarize reduces a holdings batch into snapshot totals. The per-holding
// stored P&L is authoritative for TotalPL even where it disagrees with
// current minus invested. An empty batch yields a zero summary.
func Summarize(holdings []models.Holding) Summary {
	var value, invested, pl decimal.Decimal
	byType := make(map[models.HoldingType]decimal.Decimal, 4)

	for _, h := range holdings {
		cv := decimal.NewFromFloat(h.CurrentValue)
		value = value.Add(cv)
		invested = invested.Add(decimal.NewFromFloat(h.InvestedValue))
		pl = pl.Add(decimal.NewFromFloat(h.UnrealizedPL))
		byType[h.Type] = byType[h.Type].Add(cv)
	}

	s := Summary{
		TotalValue:    value.InexactFloat64(),
		TotalInvested: invested.InexactFloat64(),
		TotalPL:       pl.InexactFloat64(),
		StocksValue:   byType[models.TypeStock].InexactFloat64(),
		MFValue:       byType[models.TypeMutualFund].InexactFloat64(),
		USStocksValue: byType[models.TypeUSStock].InexactFloat64(),
		CryptoValue:   byType[models.TypeCrypto].InexactFloat64(),
	}
	if invested.IsPositive() {
		s.TotalPLPct = pl.Div(invested).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return s
}
