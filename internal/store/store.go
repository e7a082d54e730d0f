// Package store owns persistence for accounts, users, transactions and the
// asset catalog. The ledger engine receives these interfaces explicitly;
// there is no ambient database handle.
package store

import (
	"context"
	"errors"

	"github.com/orangebank/backend/internal/models"
)

// ErrNotFound is returned when a referenced record does not exist. Upper
// layers translate it into their own typed errors.
var ErrNotFound = errors.New("record not found")

// AccountStore exposes account records. When obtained through a Tx, Get and
// FindInvestmentByUser are locking reads: the row stays locked until the
// unit of work ends, serializing concurrent mutations on the same account.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	Get(ctx context.Context, id string) (*models.Account, error)
	FindByUser(ctx context.Context, userID int) ([]models.Account, error)
	FindInvestmentByUser(ctx context.Context, userID int) (*models.Account, error)
	SetActive(ctx context.Context, id string, active bool) (*models.Account, error)
	AddBalance(ctx context.Context, id string, delta float64) error
	SetPending(ctx context.Context, id string, pending bool) error
}

// TransactionStore appends ledger records and reads the banking history.
// Records are write-once; there is no update or delete.
type TransactionStore interface {
	Append(ctx context.Context, tx *models.Transaction) error
	History(ctx context.Context, accountID string, limit, offset int) ([]models.HistoryEntry, error)
}

// UserStore owns user identities and their credentials.
type UserStore interface {
	Create(ctx context.Context, user *models.User, passwordHash string) error
	FindByEmail(ctx context.Context, email string) (*models.User, string, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
}

// AssetCatalog is the read-mostly market pricing collaborator. Only
// UpdateStockPrice mutates it, and never from inside the ledger engine.
type AssetCatalog interface {
	ListStocks(ctx context.Context) ([]models.Stock, error)
	GetStock(ctx context.Context, symbol string) (*models.Stock, error)
	ListFixedIncomes(ctx context.Context) ([]models.FixedIncome, error)
	GetFixedIncome(ctx context.Context, id string) (*models.FixedIncome, error)
	UpdateStockPrice(ctx context.Context, symbol string, price float64) (*models.Stock, error)
	StockPrices(ctx context.Context, symbol string) ([]models.StockPrice, error)
}

// Tx groups the stores scoped to one atomic unit of work.
type Tx interface {
	Accounts() AccountStore
	Transactions() TransactionStore
	Users() UserStore
}

// Store is the storage root. InTx runs fn inside a transactional scope:
// commit when fn returns nil, roll back when it returns an error or panics.
type Store interface {
	Accounts() AccountStore
	Transactions() TransactionStore
	Users() UserStore
	InTx(ctx context.Context, fn func(tx Tx) error) error
}
