package models

import (
	"time"

	"gorm.io/datatypes"
)

// WalletAddress identifies an Ethereum wallet whose DeFi positions are
// scanned into crypto holdings batches.
type WalletAddress struct {
	ID          uint                        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Address     string                      `gorm:"column:address;type:varchar(42);not null;uniqueIndex" json:"address"`
	Label       string                      `gorm:"column:label;type:varchar(100);not null" json:"label"`
	Chains      datatypes.JSONSlice[string] `gorm:"column:chains" json:"chains"`
	IsActive    bool                        `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt   time.Time                   `json:"created_at"`
	LastScanned *time.Time                  `gorm:"column:last_scanned" json:"last_scanned"`
}

func (WalletAddress) TableName() string {
	return "wallet_addresses"
}
