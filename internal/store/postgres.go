package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orangebank/backend/internal/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the same statement
// code serves plain and transactional scopes.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore implements Store on database/sql. Inside InTx, account reads
// use SELECT ... FOR UPDATE so balance decisions and mutations cannot
// interleave with another unit of work on the same row.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Accounts() AccountStore {
	return &pgAccounts{q: s.db}
}

func (s *PostgresStore) Transactions() TransactionStore {
	return &pgTransactions{q: s.db}
}

func (s *PostgresStore) Users() UserStore {
	return &pgUsers{q: s.db}
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := fn(&pgTx{tx: dbTx}); err != nil {
		return err
	}

	return dbTx.Commit()
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) Accounts() AccountStore {
	return &pgAccounts{q: t.tx, locking: true}
}

func (t *pgTx) Transactions() TransactionStore {
	return &pgTransactions{q: t.tx}
}

func (t *pgTx) Users() UserStore {
	return &pgUsers{q: t.tx}
}

// --- accounts ---

type pgAccounts struct {
	q       querier
	locking bool
}

const accountColumns = `id, user_id, type, balance, active, pending_transaction, created_at, updated_at`

func scanAccount(row interface{ Scan(dest ...any) error }) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Type, &a.Balance, &a.Active, &a.PendingTransaction, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *pgAccounts) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, type, balance, active, pending_transaction, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		account.ID, account.UserID, account.Type, account.Balance, account.Active, account.PendingTransaction, account.CreatedAt, account.UpdatedAt)
	return err
}

func (s *pgAccounts) Get(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	if s.locking {
		query += ` FOR UPDATE`
	}
	return scanAccount(s.q.QueryRowContext(ctx, query, id))
}

func (s *pgAccounts) FindByUser(ctx context.Context, userID int) ([]models.Account, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Balance, &a.Active, &a.PendingTransaction, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *pgAccounts) FindInvestmentByUser(ctx context.Context, userID int) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE user_id = $1 AND type = $2 AND active = TRUE
		LIMIT 1`
	if s.locking {
		query += ` FOR UPDATE`
	}
	return scanAccount(s.q.QueryRowContext(ctx, query, userID, models.InvestmentAccount))
}

func (s *pgAccounts) SetActive(ctx context.Context, id string, active bool) (*models.Account, error) {
	return scanAccount(s.q.QueryRowContext(ctx, `
		UPDATE accounts SET active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+accountColumns, id, active))
}

func (s *pgAccounts) AddBalance(ctx context.Context, id string, delta float64) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE accounts SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1`, id, delta)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgAccounts) SetPending(ctx context.Context, id string, pending bool) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE accounts SET pending_transaction = $2, updated_at = NOW()
		WHERE id = $1`, id, pending)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- transactions ---

type pgTransactions struct {
	q querier
}

func (s *pgTransactions) Append(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	var category any
	if tx.Category != "" {
		category = string(tx.Category)
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO transactions (id, from_account_id, to_account_id, amount, type, category, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.FromAccountID, tx.ToAccountID, tx.Amount, tx.Type, category, tx.Description, tx.CreatedAt)
	return err
}

func (s *pgTransactions) History(ctx context.Context, accountID string, limit, offset int) ([]models.HistoryEntry, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT t.id, t.from_account_id, t.to_account_id, t.amount, t.type,
		       COALESCE(t.category, ''), t.description, t.created_at,
		       fu.name, fu.cpf, tu.name, tu.cpf
		FROM transactions t
		LEFT JOIN accounts fa ON t.from_account_id = fa.id
		LEFT JOIN users fu ON fa.user_id = fu.id
		LEFT JOIN accounts ta ON t.to_account_id = ta.id
		LEFT JOIN users tu ON ta.user_id = tu.id
		WHERE (t.from_account_id = $1 OR t.to_account_id = $1)
		  AND (t.category IS NULL OR t.category <> $2)
		ORDER BY t.created_at DESC
		LIMIT $3 OFFSET $4`,
		accountID, models.CategoryInvestment, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		var category string
		var fromName, fromCPF, toName, toCPF sql.NullString
		err := rows.Scan(&e.ID, &e.FromAccountID, &e.ToAccountID, &e.Amount, &e.Type,
			&category, &e.Description, &e.CreatedAt,
			&fromName, &fromCPF, &toName, &toCPF)
		if err != nil {
			return nil, err
		}
		e.Category = models.TransactionCategory(category)
		if e.FromAccountID != nil {
			e.FromAccount = &models.TransactionParty{AccountID: *e.FromAccountID, Name: fromName.String, CPF: fromCPF.String}
		}
		if e.ToAccountID != nil {
			e.ToAccount = &models.TransactionParty{AccountID: *e.ToAccountID, Name: toName.String, CPF: toCPF.String}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- users ---

type pgUsers struct {
	q querier
}

func (s *pgUsers) Create(ctx context.Context, user *models.User, passwordHash string) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	return s.q.QueryRowContext(ctx, `
		INSERT INTO users (name, email, cpf, birth_date, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		user.Name, user.Email, user.CPF, user.BirthDate, passwordHash, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
}

func (s *pgUsers) FindByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var u models.User
	var hash string
	err := s.q.QueryRowContext(ctx, `
		SELECT id, name, email, cpf, birth_date, password, created_at, updated_at
		FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.CPF, &u.BirthDate, &hash, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return &u, hash, nil
}

func (s *pgUsers) FindByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := s.q.QueryRowContext(ctx, `
		SELECT id, name, email, cpf, birth_date, created_at, updated_at
		FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.CPF, &u.BirthDate, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
