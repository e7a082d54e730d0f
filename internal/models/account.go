package models

import (
	"time"
)

// AccountType discriminates the two account flavours. The type is fixed at
// creation time and never changes afterwards.
type AccountType string

const (
	CurrentAccount    AccountType = "current_account"
	InvestmentAccount AccountType = "investment_account"
)

// Account is the mutable shared resource of the ledger. Balance and
// PendingTransaction are the only fields the ledger engine changes on the
// hot path.
type Account struct {
	ID                 string      `json:"id" db:"id"`
	UserID             int         `json:"user_id" db:"user_id"`
	Type               AccountType `json:"type" db:"type"`
	Balance            float64     `json:"balance" db:"balance"`
	Active             bool        `json:"active" db:"active"`
	PendingTransaction bool        `json:"pending_transaction" db:"pending_transaction"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at" db:"updated_at"`
}

// IsInvestment reports whether the account is an investment account.
func (a *Account) IsInvestment() bool {
	return a.Type == InvestmentAccount
}
