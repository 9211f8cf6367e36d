// Package store contains GORM-backed SQLite models used by the price oracle.
//
// Database Structure (database file: price_updates.db):
//
//	databases/
//	└── price_updates.db
//	    └── price_update_transactions
package store

import (
	"gorm.io/gorm"
)

// Update statuses
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusDryRun  = "dry_run"
)

// PriceUpdateTransaction records one updatePrices attempt on a home chain.
type PriceUpdateTransaction struct {
	gorm.Model
	Strategy string `gorm:"index"`                   // Strategy that produced the update
	ChainID  uint16 `gorm:"index;not null"`          // Home chain the update was sent to
	Contract string `gorm:"size:42"`                 // Delivery provider address
	TxHash   string `gorm:"index"`                   // Empty until the tx is broadcast
	Status   string `gorm:"index;default:'pending'"` // "pending", "success", "failed" or "dry_run"
	Entries  int    `gorm:"not null"`                // Number of remote chain prices in the batch
	GasUsed  uint64 `gorm:"default:0"`               // Gas used, from the receipt
	Payload  []byte `gorm:"type:blob"`               // JSON-encoded price entries
	ErrorMsg string `gorm:"type:text"`               // Error message if the update failed
}
