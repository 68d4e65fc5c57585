package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	TxnStatusPending TransactionStatus = "pending"
	TxnStatusPaid    TransactionStatus = "paid"
	TxnStatusFailed  TransactionStatus = "failed"
)

type TransactionKind string

const (
	TxnKindPurchase TransactionKind = "purchase"
	TxnKindUpgrade  TransactionKind = "upgrade"
)

type Transaction struct {
	BaseModel
	SessionID   uuid.UUID         `gorm:"type:uuid;index"`
	Kind        TransactionKind   `gorm:"size:16"`
	Plan        string            `gorm:"size:16"` // tier being bought
	AmountMinor int64             // e.g., 999 = $9.99
	Currency    string            `gorm:"size:3"` // ISO 4217
	Status      TransactionStatus `gorm:"size:16;index"`

	// Gateway fields
	Provider       string `gorm:"index"`
	IdempotencyKey string `gorm:"uniqueIndex"` // fresh per attempt
	ProviderTxnID  string `gorm:"index"`
	FailureReason  string

	PaidAt *int64 // unix seconds

	// Raw provider response
	Receipt datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
