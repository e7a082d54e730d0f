package services

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/orangebank/backend/internal/ledger"
)

// TransactionService exposes the money-movement HTTP API on top of the
// ledger engine.
type TransactionService struct {
	ledger    *LedgerService
	validator *ValidationHelper
}

func NewTransactionService(ledgerService *LedgerService) *TransactionService {
	return &TransactionService{
		ledger:    ledgerService,
		validator: NewValidationHelper(),
	}
}

type amountRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type transferRequest struct {
	FromAccountID string  `json:"fromAccountId" validate:"required"`
	ToAccountID   string  `json:"toAccountId" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Description   string  `json:"description,omitempty"`
}

// decodeBody enforces the shared request body hygiene: bounded size, no
// unknown fields, exactly one JSON object.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}

	return true
}

// Deposit credits an account
// @Summary Deposit into an account
// @Description Credit an amount to a current account
// @Tags transactions
// @Accept json
// @Produce json
// @Param accountId path string true "Account ID"
// @Param deposit body amountRequest true "Deposit amount"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{accountId}/deposit [post]
func (ts *TransactionService) Deposit(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := ts.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	tx, err := ts.ledger.Deposit(r.Context(), accountID, req.Amount)
	if err != nil {
		SendLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tx)
}

// Withdraw debits an account
// @Summary Withdraw from an account
// @Description Debit an amount from a current account
// @Tags transactions
// @Accept json
// @Produce json
// @Param accountId path string true "Account ID"
// @Param withdraw body amountRequest true "Withdrawal amount"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{accountId}/withdraw [post]
func (ts *TransactionService) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := ts.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	tx, err := ts.ledger.Withdraw(r.Context(), accountID, req.Amount)
	if err != nil {
		SendLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tx)
}

// Transfer moves money between accounts
// @Summary Transfer between accounts
// @Description Transfer an amount between two accounts; transfers between different users carry a 0.5% fee
// @Tags transactions
// @Accept json
// @Produce json
// @Param transfer body transferRequest true "Transfer details"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/transfer [post]
func (ts *TransactionService) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := ts.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	tx, err := ts.ledger.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.Amount, req.Description)
	if err != nil {
		if kind, ok := ledger.KindOf(err); ok {
			log.Printf("[TRANSFER] Rejected %s -> %s: %s", req.FromAccountID, req.ToAccountID, kind)
		}
		SendLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tx)
}

// GetHistory returns the banking history of an account
// @Summary Get account transaction history
// @Description List past transactions for an account, newest first. Trading records are excluded and counterparty CPFs are redacted.
// @Tags transactions
// @Produce json
// @Param accountId path string true "Account ID"
// @Param limit query int false "Number of transactions to return (default: 5, max: 50)"
// @Param offset query int false "Number of transactions to skip"
// @Success 200 {array} models.HistoryEntry
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{accountId}/transactions [get]
func (ts *TransactionService) GetHistory(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}
	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil {
			offset = o
		}
	}

	entries, err := ts.ledger.GetHistory(r.Context(), accountID, limit, offset)
	if err != nil {
		SendLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"transactions": entries,
		"count":        len(entries),
	})
}
