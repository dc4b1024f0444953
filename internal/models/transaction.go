package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "income"
	TransactionTypeExpense    TransactionType = "expense"
	TransactionTypeInvestment TransactionType = "investment"
	TransactionTypeLiability  TransactionType = "liability"
	TransactionTypeLend       TransactionType = "lend"
)

// Transaction represents a financial transaction. Transactions are
// immutable once created; edits are modeled as delete + recreate.
type Transaction struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type       TransactionType `gorm:"not null" json:"type"`
	Category   string          `gorm:"not null" json:"category"`
	Amount     int64           `gorm:"type:bigint;not null" json:"amount"`
	OccurredAt time.Time       `gorm:"not null;index" json:"occurred_at"`
	Note       string          `json:"note,omitempty"`

	// Set only for lend transactions
	CounterpartyName string `json:"counterparty_name,omitempty"`
}
