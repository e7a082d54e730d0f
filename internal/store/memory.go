package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/orangebank/backend/internal/models"
)

// MemoryStore is an in-memory Store. A single mutex serializes every unit of
// work, and InTx restores a pre-snapshot on error, giving the same
// commit-or-nothing semantics as the Postgres implementation. Used by tests
// and local tooling; returned records are copies, never internal pointers.
type MemoryStore struct {
	mu           sync.Mutex
	nextUserID   int
	users        map[int]*models.User
	passwords    map[int]string
	accounts     map[string]*models.Account
	transactions []*models.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[int]*models.User),
		passwords: make(map[int]string),
		accounts:  make(map[string]*models.Account),
	}
}

func (s *MemoryStore) Accounts() AccountStore         { return &memAccounts{s: s, lock: true} }
func (s *MemoryStore) Transactions() TransactionStore { return &memTransactions{s: s, lock: true} }
func (s *MemoryStore) Users() UserStore               { return &memUsers{s: s, lock: true} }

func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	committed := false
	defer func() {
		if !committed {
			s.restore(snapshot)
		}
	}()

	if err := fn(&memTx{s: s}); err != nil {
		return err
	}
	committed = true
	return nil
}

type memSnapshot struct {
	nextUserID   int
	users        map[int]*models.User
	passwords    map[int]string
	accounts     map[string]*models.Account
	transactions int
}

func (s *MemoryStore) snapshot() memSnapshot {
	snap := memSnapshot{
		nextUserID:   s.nextUserID,
		users:        make(map[int]*models.User, len(s.users)),
		passwords:    make(map[int]string, len(s.passwords)),
		accounts:     make(map[string]*models.Account, len(s.accounts)),
		transactions: len(s.transactions),
	}
	for id, u := range s.users {
		cp := *u
		snap.users[id] = &cp
	}
	for id, h := range s.passwords {
		snap.passwords[id] = h
	}
	for id, a := range s.accounts {
		cp := *a
		snap.accounts[id] = &cp
	}
	return snap
}

func (s *MemoryStore) restore(snap memSnapshot) {
	s.nextUserID = snap.nextUserID
	s.users = snap.users
	s.passwords = snap.passwords
	s.accounts = snap.accounts
	s.transactions = s.transactions[:snap.transactions]
}

type memTx struct {
	s *MemoryStore
}

func (t *memTx) Accounts() AccountStore         { return &memAccounts{s: t.s} }
func (t *memTx) Transactions() TransactionStore { return &memTransactions{s: t.s} }
func (t *memTx) Users() UserStore               { return &memUsers{s: t.s} }

// --- accounts ---

type memAccounts struct {
	s    *MemoryStore
	lock bool
}

func (m *memAccounts) Create(ctx context.Context, account *models.Account) error {
	if m.lock {
		m.s.mu.Lock()
		defer m.s.mu.Unlock()
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	cp := *account
	m.s.accounts[account.ID] = &cp
	return nil
}

func (m *memAccounts) Get(ctx context.Context, id string) (*models.Account, error) {
	if m.lock {
		m.s.mu.Lock()
		defer m.s.mu.Unlock()
	}
	a, ok := m.s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAccounts) FindByUser(ctx context.Context, userID int) ([]models.Account, error) {
	if m.lock {
		m.s.mu.Lock()
		defer m.s.mu.Unlock()
	}
	accounts := []models.Account{}
	for _, a := range m.s.accounts {
		if a.UserID == userID {
			accounts = append(accounts, *a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID < accounts[j].ID
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (m *memAccounts) FindInvestmentByUser(ctx context.Context, userID int) (*models.Account, error) {
	if m.lock {
		m.s.mu.Lock()
		defer m.s.mu.Unlock()
	}
	for _, a := range m.s.accounts {
		if a.UserID == userID && a.Type == models.InvestmentAccount && a.Active {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memAccounts) SetActive(ctx context.Context, id string, active bool) (*models.Account, error) {
	if m.lock {
		m.s.mu.Lock()
		defer m.s.mu.Unlock()
	}
	a, ok := m.s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	a.Active = active
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (m *memAccounts) AddBalance(ctx context.Context, id string, delta float64) error {
	if m.lock {
		m.s.mu.Lock()
		defer m.s.mu.Unlock()
	}
	a, ok := m.s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	a.Balance += delta
	a.UpdatedAt = time.Now()
	return nil
}

func (m *memAccounts) SetPending(ctx context.Context, id string, pending bool) error {
	if m.lock {
		m.s.mu.Lock()
		defer m.s.mu.Unlock()
	}
	a, ok := m.s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	a.PendingTransaction = pending
	a.UpdatedAt = time.Now()
	return nil
}

// --- transactions ---

type memTransactions struct {
	s    *MemoryStore
	lock bool
}

func (m *memTransactions) Append(ctx context.Context, tx *models.Transaction) error {
	if m.lock {
		m.s.mu.Lock()
		defer m.s.mu.Unlock()
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	cp := *tx
	m.s.transactions = append(m.s.transactions, &cp)
	return nil
}

func (m *memTransactions) History(ctx context.Context, accountID string, limit, offset int) ([]models.HistoryEntry, error) {
	if m.lock {
		m.s.mu.Lock()
		defer m.s.mu.Unlock()
	}
	entries := []models.HistoryEntry{}
	skipped := 0
	// transactions are appended in order, so walking backwards yields
	// newest first
	for i := len(m.s.transactions) - 1; i >= 0 && len(entries) < limit; i-- {
		tx := m.s.transactions[i]
		if tx.Category == models.CategoryInvestment {
			continue
		}
		involved := (tx.FromAccountID != nil && *tx.FromAccountID == accountID) ||
			(tx.ToAccountID != nil && *tx.ToAccountID == accountID)
		if !involved {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		entry := models.HistoryEntry{Transaction: *tx}
		entry.FromAccount = m.party(tx.FromAccountID)
		entry.ToAccount = m.party(tx.ToAccountID)
		entries = append(entries, entry)
	}
	return entries, nil
}

func (m *memTransactions) party(accountID *string) *models.TransactionParty {
	if accountID == nil {
		return nil
	}
	party := &models.TransactionParty{AccountID: *accountID}
	if a, ok := m.s.accounts[*accountID]; ok {
		if u, ok := m.s.users[a.UserID]; ok {
			party.Name = u.Name
			party.CPF = u.CPF
		}
	}
	return party
}

// --- users ---

type memUsers struct {
	s    *MemoryStore
	lock bool
}

func (m *memUsers) Create(ctx context.Context, user *models.User, passwordHash string) error {
	if m.lock {
		m.s.mu.Lock()
		defer m.s.mu.Unlock()
	}
	m.s.nextUserID++
	user.ID = m.s.nextUserID
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	m.s.users[user.ID] = &cp
	m.s.passwords[user.ID] = passwordHash
	return nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, string, error) {
	if m.lock {
		m.s.mu.Lock()
		defer m.s.mu.Unlock()
	}
	for _, u := range m.s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, m.s.passwords[u.ID], nil
		}
	}
	return nil, "", ErrNotFound
}

func (m *memUsers) FindByID(ctx context.Context, id int) (*models.User, error) {
	if m.lock {
		m.s.mu.Lock()
		defer m.s.mu.Unlock()
	}
	u, ok := m.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// MemoryCatalog is an in-memory AssetCatalog for tests and seeding dry runs.
type MemoryCatalog struct {
	mu           sync.Mutex
	stocks       map[string]*models.Stock
	fixedIncomes map[string]*models.FixedIncome
	prices       []models.StockPrice
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		stocks:       make(map[string]*models.Stock),
		fixedIncomes: make(map[string]*models.FixedIncome),
	}
}

func (c *MemoryCatalog) PutStock(s models.Stock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stocks[s.ID] = &s
}

func (c *MemoryCatalog) PutFixedIncome(f models.FixedIncome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fixedIncomes[f.ID] = &f
}

func (c *MemoryCatalog) ListStocks(ctx context.Context) ([]models.Stock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stocks := []models.Stock{}
	for _, s := range c.stocks {
		stocks = append(stocks, *s)
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Name < stocks[j].Name })
	return stocks, nil
}

func (c *MemoryCatalog) GetStock(ctx context.Context, symbol string) (*models.Stock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.stocks[symbol]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (c *MemoryCatalog) ListFixedIncomes(ctx context.Context) ([]models.FixedIncome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	assets := []models.FixedIncome{}
	for _, f := range c.fixedIncomes {
		assets = append(assets, *f)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })
	return assets, nil
}

func (c *MemoryCatalog) GetFixedIncome(ctx context.Context, id string) (*models.FixedIncome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.fixedIncomes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (c *MemoryCatalog) UpdateStockPrice(ctx context.Context, symbol string, price float64) (*models.Stock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.stocks[symbol]
	if !ok {
		return nil, ErrNotFound
	}
	s.CurrentPrice = price
	s.UpdatedAt = time.Now()
	c.prices = append(c.prices, models.StockPrice{
		ID:        len(c.prices) + 1,
		StockID:   symbol,
		Price:     price,
		CreatedAt: time.Now(),
	})
	cp := *s
	return &cp, nil
}

func (c *MemoryCatalog) StockPrices(ctx context.Context, symbol string) ([]models.StockPrice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prices := []models.StockPrice{}
	for i := len(c.prices) - 1; i >= 0; i-- {
		if c.prices[i].StockID == symbol {
			prices = append(prices, c.prices[i])
		}
	}
	return prices, nil
}
