package models

import (
	"time"
)

// HoldingType tags a holding with its asset class.
type HoldingType string

const (
	TypeStock      HoldingType = "stock"
	TypeMutualFund HoldingType = "mutual_fund"
	TypeUSStock    HoldingType = "us_stock"
	TypeCrypto     HoldingType = "crypto"
)

// AllHoldingTypes lists every known asset type, in reporting order.
func AllHoldingTypes() []HoldingType {
	return []HoldingType{TypeStock, TypeMutualFund, TypeUSStock, TypeCrypto}
}

// Valid reports whether t is one of the known asset types.
func (t HoldingType) Valid() bool {
	switch t {
	case TypeStock, TypeMutualFund, TypeUSStock, TypeCrypto:
		return true
	}
	return false
}

// Holding is one position recorded at one snapshot date.
// Monetary fields are fully computed by the parser/scanner before the
// record reaches the merge engine; the engine only re-stamps SnapshotDate.
type Holding struct {
	ID              uint        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SnapshotDate    time.Time   `gorm:"column:snapshot_date;index;not null" json:"snapshot_date"`
	Type            HoldingType `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Name            string      `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Symbol          *string     `gorm:"column:symbol;type:varchar(50)" json:"symbol"`
	ISIN            *string     `gorm:"column:isin;type:varchar(50)" json:"isin"`
	Units           float64     `gorm:"column:units;not null" json:"units"`
	AvgPrice        float64     `gorm:"column:avg_price;not null" json:"avg_price"`
	CurrentPrice    float64     `gorm:"column:current_price;not null" json:"current_price"`
	InvestedValue   float64     `gorm:"column:invested_value;not null" json:"invested_value"`
	CurrentValue    float64     `gorm:"column:current_value;not null" json:"current_value"`
	UnrealizedPL    float64     `gorm:"column:unrealized_pl;not null" json:"unrealized_pl"`
	UnrealizedPLPct float64     `gorm:"column:unrealized_pl_pct;not null" json:"unrealized_pl_pct"`
}

func (Holding) TableName() string {
	return "holdings"
}
