package models

import (
	"time"
)

// TransactionType classifies a money movement.
type TransactionType string

const (
	TransactionInternal      TransactionType = "internal"
	TransactionExternal      TransactionType = "external"
	TransactionAssetPurchase TransactionType = "asset_purchase"
	TransactionAssetSale     TransactionType = "asset_sale"
)

// TransactionCategory is a finer tag used to filter trading records out of
// the plain banking history view.
type TransactionCategory string

const (
	CategoryDeposit    TransactionCategory = "deposit"
	CategoryWithdrawal TransactionCategory = "withdrawal"
	CategoryTransfer   TransactionCategory = "transfer"
	CategoryInvestment TransactionCategory = "investment"
)

// Transaction is an append-only ledger record. FromAccountID is nil for
// deposits and asset-sale credits; ToAccountID is nil for withdrawals and
// asset-purchase debits. Amount is the net amount actually moved.
type Transaction struct {
	ID            string              `json:"id" db:"id"`
	FromAccountID *string             `json:"from_account_id" db:"from_account_id"`
	ToAccountID   *string             `json:"to_account_id" db:"to_account_id"`
	Amount        float64             `json:"amount" db:"amount"`
	Type          TransactionType     `json:"type" db:"type"`
	Category      TransactionCategory `json:"category,omitempty" db:"category"`
	Description   string              `json:"description" db:"description"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
}

// TransactionParty identifies one side of a history entry. CPF is redacted
// before the entry leaves the history reader.
type TransactionParty struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	CPF       string `json:"cpf"`
}

// HistoryEntry is a transaction joined with its counterparty owners, as
// returned by the banking history view.
type HistoryEntry struct {
	Transaction
	FromAccount *TransactionParty `json:"from_account,omitempty"`
	ToAccount   *TransactionParty `json:"to_account,omitempty"`
}
