package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/orangebank/backend/internal/audit"
	"github.com/orangebank/backend/internal/ledger"
	"github.com/orangebank/backend/internal/models"
	"github.com/orangebank/backend/internal/store"
)

// Fee and tax rates applied by settlement. These are business constants of
// the product, not deployment configuration.
const (
	externalFeeRate  = 0.005
	brokerageFeeRate = 0.01
	stockTaxRate     = 0.15
	fixedTaxRate     = 0.22

	// Placeholder yield assumptions: no position or lot tracking exists, so
	// sales assume a flat 10% prior gain on stocks and a 6-month holding
	// period on fixed income.
	assumedBuyFactor   = 0.9
	holdingPeriodMonth = 6

	maxHistoryLimit     = 50
	defaultHistoryLimit = 5
)

// AssetClass selects the pricing rules for a settlement.
type AssetClass string

const (
	ClassStock       AssetClass = "stock"
	ClassFixedIncome AssetClass = "fixed_income"
)

// LedgerService executes all money movements. Every operation runs inside a
// single transactional unit of work; account reads in that scope are locking,
// so rule checks and balance mutations cannot interleave with a concurrent
// operation on the same account.
type LedgerService struct {
	store   store.Store
	catalog store.AssetCatalog
	audit   *audit.Logger
}

func NewLedgerService(st store.Store, catalog store.AssetCatalog, auditLogger *audit.Logger) *LedgerService {
	return &LedgerService{store: st, catalog: catalog, audit: auditLogger}
}

// Deposit credits amount to a current account.
func (s *LedgerService) Deposit(ctx context.Context, accountID string, amount float64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ledger.NewError(ledger.InvalidAmount, "Amount must be greater than zero")
	}

	var tx *models.Transaction
	err := s.store.InTx(ctx, func(scope store.Tx) error {
		account, err := scope.Accounts().Get(ctx, accountID)
		if errors.Is(err, store.ErrNotFound) {
			return ledger.NewError(ledger.AccountNotFound, "Account not found")
		}
		if err != nil {
			return err
		}
		if account.IsInvestment() {
			return ledger.NewError(ledger.InvalidAccountType, "Operation not allowed on investment accounts")
		}

		if err := scope.Accounts().AddBalance(ctx, accountID, amount); err != nil {
			return err
		}

		tx = &models.Transaction{
			ToAccountID: &accountID,
			Amount:      amount,
			Type:        models.TransactionInternal,
			Category:    models.CategoryDeposit,
			Description: "Deposit",
		}
		return scope.Transactions().Append(ctx, tx)
	})
	if err != nil {
		s.audit.LogError(accountID, "DEPOSIT", err)
		return nil, err
	}
	s.audit.LogMovement(tx.ID, accountID, "DEPOSIT", amount)
	return tx, nil
}

// Withdraw debits amount from a current account. The account is re-read
// inside the transactional scope so the sufficiency check cannot act on a
// stale balance.
func (s *LedgerService) Withdraw(ctx context.Context, accountID string, amount float64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ledger.NewError(ledger.InvalidAmount, "Amount must be greater than zero")
	}

	var tx *models.Transaction
	err := s.store.InTx(ctx, func(scope store.Tx) error {
		account, err := scope.Accounts().Get(ctx, accountID)
		if errors.Is(err, store.ErrNotFound) {
			return ledger.NewError(ledger.AccountNotFound, "Account not found")
		}
		if err != nil {
			return err
		}
		if account.IsInvestment() {
			return ledger.NewError(ledger.InvalidAccountType, "Operation not allowed on investment accounts")
		}
		if account.Balance < amount {
			return ledger.NewError(ledger.InsufficientFunds, "Insufficient funds for transfer")
		}

		if err := scope.Accounts().AddBalance(ctx, accountID, -amount); err != nil {
			return err
		}

		tx = &models.Transaction{
			FromAccountID: &accountID,
			Amount:        amount,
			Type:          models.TransactionInternal,
			Category:      models.CategoryWithdrawal,
			Description:   "Withdrawal",
		}
		return scope.Transactions().Append(ctx, tx)
	})
	if err != nil {
		s.audit.LogError(accountID, "WITHDRAW", err)
		return nil, err
	}
	s.audit.LogMovement(tx.ID, accountID, "WITHDRAW", amount)
	return tx, nil
}

// Transfer moves amount between two accounts. Transfers between different
// users are external and cost the sender an extra 0.5% fee; the fee is
// destroyed, not credited anywhere.
func (s *LedgerService) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount float64, description string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ledger.NewError(ledger.InvalidAmount, "Amount must be greater than zero")
	}
	if fromAccountID == toAccountID {
		return nil, ledger.NewError(ledger.SameAccountTransfer, "Cannot transfer to the same account")
	}

	var tx *models.Transaction
	err := s.store.InTx(ctx, func(scope store.Tx) error {
		// Lock both rows in id order to avoid deadlocks between opposing
		// transfers; error reporting still checks destination first.
		firstID, secondID := fromAccountID, toAccountID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}
		first, firstErr := scope.Accounts().Get(ctx, firstID)
		if firstErr != nil && !errors.Is(firstErr, store.ErrNotFound) {
			return firstErr
		}
		second, secondErr := scope.Accounts().Get(ctx, secondID)
		if secondErr != nil && !errors.Is(secondErr, store.ErrNotFound) {
			return secondErr
		}

		fromAccount, toAccount := first, second
		if firstID != fromAccountID {
			fromAccount, toAccount = second, first
		}
		if toAccount == nil {
			return ledger.NewError(ledger.AccountNotFound, "Destination account not found")
		}
		if fromAccount == nil {
			return ledger.NewError(ledger.AccountNotFound, "Source account not found")
		}

		isExternal := fromAccount.UserID != toAccount.UserID
		if isExternal && (fromAccount.Type != models.CurrentAccount || toAccount.Type != models.CurrentAccount) {
			return ledger.NewError(ledger.InvalidAccountType, "External transfers are only allowed between current accounts")
		}
		if !isExternal && fromAccount.IsInvestment() && toAccount.Type != models.CurrentAccount {
			return ledger.NewError(ledger.InvalidAccountType, "Investment account can only transfer to a current account")
		}
		if fromAccount.IsInvestment() && fromAccount.PendingTransaction {
			return ledger.NewError(ledger.PendingTransaction, "Cannot transfer from an account with a pending transaction")
		}

		decreaseAmount := amount
		if isExternal {
			decreaseAmount += amount * externalFeeRate
		}
		if fromAccount.Balance < decreaseAmount {
			return ledger.NewError(ledger.InsufficientFunds, "Insufficient funds for transfer")
		}

		if err := scope.Accounts().AddBalance(ctx, fromAccountID, -decreaseAmount); err != nil {
			return err
		}
		if err := scope.Accounts().AddBalance(ctx, toAccountID, amount); err != nil {
			return err
		}

		txType := models.TransactionInternal
		if isExternal {
			txType = models.TransactionExternal
		}
		tx = &models.Transaction{
			FromAccountID: &fromAccountID,
			ToAccountID:   &toAccountID,
			Amount:        amount,
			Type:          txType,
			Category:      models.CategoryTransfer,
			Description:   description,
		}
		return scope.Transactions().Append(ctx, tx)
	})
	if err != nil {
		s.audit.LogError(fromAccountID, "TRANSFER", err)
		return nil, err
	}
	s.audit.LogTransfer(tx.ID, fromAccountID, toAccountID, amount)
	return tx, nil
}

// SettleAssetPurchase debits the user's investment account for an asset
// purchase. For stocks quantity is a share count and a 1% brokerage fee is
// added; for fixed income quantity is the invested amount itself and must
// meet the instrument's minimum.
func (s *LedgerService) SettleAssetPurchase(ctx context.Context, userID int, class AssetClass, symbol string, quantity float64) (*models.Transaction, error) {
	if quantity <= 0 {
		return nil, ledger.NewError(ledger.InvalidAmount, "Amount must be greater than zero")
	}

	var (
		totalCost   float64
		description string
	)
	switch class {
	case ClassStock:
		stock, err := s.catalog.GetStock(ctx, symbol)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ledger.NewError(ledger.AssetNotFound, "Stock %s not found", symbol)
		}
		if err != nil {
			return nil, err
		}
		grossAmount := stock.CurrentPrice * quantity
		brokerageFee := grossAmount * brokerageFeeRate
		totalCost = grossAmount + brokerageFee
		description = fmt.Sprintf("Purchase of %v %s shares at $%v each (Brokerage fee: $%.2f)",
			quantity, symbol, stock.CurrentPrice, brokerageFee)

	case ClassFixedIncome:
		fixedIncome, err := s.catalog.GetFixedIncome(ctx, symbol)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ledger.NewError(ledger.AssetNotFound, "Fixed income asset %s not found", symbol)
		}
		if err != nil {
			return nil, err
		}
		totalCost = quantity
		if totalCost < fixedIncome.MinimumInvestment {
			return nil, ledger.NewError(ledger.BelowMinimumInvestment,
				"Minimum investment for %s is $%v", symbol, fixedIncome.MinimumInvestment)
		}
		description = fmt.Sprintf("Investment in %s - $%v (Rate: %v%% %s)",
			fixedIncome.Name, totalCost, fixedIncome.Rate, fixedIncome.RateType)

	default:
		return nil, ledger.NewError(ledger.AssetNotFound, "Unknown asset class %q", class)
	}

	tx, err := s.settle(ctx, userID, settlement{
		debit:       totalCost,
		txType:      models.TransactionAssetPurchase,
		description: description,
	})
	if err != nil {
		s.audit.LogError(symbol, "ASSET_PURCHASE", err)
		return nil, err
	}
	s.audit.LogSettlement(tx.ID, *tx.FromAccountID, symbol, totalCost)
	return tx, nil
}

// SettleAssetSale credits the user's investment account with the net proceeds
// of a sale. Yield is synthetic: stocks assume a prior buy at 90% of the
// current price (15% tax on the gain), fixed income accrues six months of the
// annual rate (22% tax on the gain).
func (s *LedgerService) SettleAssetSale(ctx context.Context, userID int, class AssetClass, symbol string, quantity float64) (*models.Transaction, error) {
	if quantity <= 0 {
		return nil, ledger.NewError(ledger.InvalidAmount, "Amount must be greater than zero")
	}

	var (
		netAmount   float64
		description string
	)
	switch class {
	case ClassStock:
		stock, err := s.catalog.GetStock(ctx, symbol)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ledger.NewError(ledger.AssetNotFound, "Stock %s not found", symbol)
		}
		if err != nil {
			return nil, err
		}
		grossAmount := stock.CurrentPrice * quantity
		assumedBuyPrice := stock.CurrentPrice * assumedBuyFactor
		profit := (stock.CurrentPrice - assumedBuyPrice) * quantity
		var taxAmount float64
		if profit > 0 {
			taxAmount = profit * stockTaxRate
		}
		netAmount = grossAmount - taxAmount
		description = fmt.Sprintf("Sale of %v %s shares at $%v each (Gross: $%.2f, Tax: $%.2f, Net: $%.2f)",
			quantity, symbol, stock.CurrentPrice, grossAmount, taxAmount, netAmount)

	case ClassFixedIncome:
		fixedIncome, err := s.catalog.GetFixedIncome(ctx, symbol)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ledger.NewError(ledger.AssetNotFound, "Fixed income asset %s not found", symbol)
		}
		if err != nil {
			return nil, err
		}
		principal := quantity
		monthlyRate := fixedIncome.Rate / 100 / 12
		grossAmount := principal * (1 + monthlyRate*holdingPeriodMonth)
		profit := grossAmount - principal
		var taxAmount float64
		if profit > 0 {
			taxAmount = profit * fixedTaxRate
		}
		netAmount = grossAmount - taxAmount
		description = fmt.Sprintf("Redemption of %s - Principal: $%v, Gross: $%.2f, Tax: $%.2f, Net: $%.2f",
			fixedIncome.Name, principal, grossAmount, taxAmount, netAmount)

	default:
		return nil, ledger.NewError(ledger.AssetNotFound, "Unknown asset class %q", class)
	}

	tx, err := s.settle(ctx, userID, settlement{
		credit:      netAmount,
		txType:      models.TransactionAssetSale,
		description: description,
	})
	if err != nil {
		s.audit.LogError(symbol, "ASSET_SALE", err)
		return nil, err
	}
	s.audit.LogSettlement(tx.ID, *tx.ToAccountID, symbol, netAmount)
	return tx, nil
}

type settlement struct {
	debit       float64
	credit      float64
	txType      models.TransactionType
	description string
}

// settle runs the shared settlement sequence against the caller's investment
// account: pending flag up, balance mutation, transaction record, pending
// flag down. The whole sequence is one atomic unit, so an aborted settlement
// can never leave the flag set.
func (s *LedgerService) settle(ctx context.Context, userID int, op settlement) (*models.Transaction, error) {
	var tx *models.Transaction
	err := s.store.InTx(ctx, func(scope store.Tx) error {
		account, err := scope.Accounts().FindInvestmentByUser(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ledger.NewError(ledger.InvestmentAccountNotFound, "Investment account not found or inactive")
		}
		if err != nil {
			return err
		}
		if op.debit > 0 && account.Balance < op.debit {
			return ledger.NewError(ledger.InsufficientFunds, "Insufficient balance in investment account")
		}
		if account.PendingTransaction {
			return ledger.NewError(ledger.PendingTransaction, "There is a pending transaction on this account")
		}

		if err := scope.Accounts().SetPending(ctx, account.ID, true); err != nil {
			return err
		}

		delta := op.credit - op.debit
		if err := scope.Accounts().AddBalance(ctx, account.ID, delta); err != nil {
			return err
		}

		tx = &models.Transaction{
			Type:        op.txType,
			Category:    models.CategoryInvestment,
			Description: op.description,
		}
		if op.debit > 0 {
			tx.FromAccountID = &account.ID
			tx.Amount = op.debit
		} else {
			tx.ToAccountID = &account.ID
			tx.Amount = op.credit
		}
		if err := scope.Transactions().Append(ctx, tx); err != nil {
			return err
		}

		return scope.Accounts().SetPending(ctx, account.ID, false)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// GetHistory returns the banking history of an account, newest first.
// Trading records (category investment) are excluded, limit is capped at 50,
// and counterparty CPFs are redacted before leaving this layer.
func (s *LedgerService) GetHistory(ctx context.Context, accountID string, limit, offset int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	if _, err := s.store.Accounts().Get(ctx, accountID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ledger.NewError(ledger.AccountNotFound, "Account not found")
		}
		return nil, err
	}

	entries, err := s.store.Transactions().History(ctx, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].FromAccount != nil {
			entries[i].FromAccount.CPF = maskCPF(entries[i].FromAccount.CPF)
		}
		if entries[i].ToAccount != nil {
			entries[i].ToAccount.CPF = maskCPF(entries[i].ToAccount.CPF)
		}
	}
	return entries, nil
}

// maskCPF keeps the last 5 characters and left-pads with '*' to the
// canonical 11-character CPF length.
func maskCPF(cpf string) string {
	if cpf == "" {
		return ""
	}
	tail := cpf
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	return strings.Repeat("*", 11-len(tail)) + tail
}
