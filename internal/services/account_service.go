package services

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orangebank/backend/internal/middleware"
	"github.com/orangebank/backend/internal/models"
	"github.com/orangebank/backend/internal/store"
)

// AccountService exposes account lifecycle operations. Accounts are never
// deleted, only deactivated.
type AccountService struct {
	store     store.Store
	validator *ValidationHelper
}

func NewAccountService(st store.Store) *AccountService {
	return &AccountService{
		store:     st,
		validator: NewValidationHelper(),
	}
}

type createAccountRequest struct {
	Type string `json:"type" validate:"required,oneof=current_account investment_account"`
}

// CreateAccount opens a new account for the authenticated user
// @Summary Create an account
// @Description Open a new current or investment account for the authenticated user
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body createAccountRequest true "Account type"
// @Success 201 {object} models.Account
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /accounts [post]
func (as *AccountService) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req createAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := as.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	account := &models.Account{
		UserID: userID,
		Type:   models.AccountType(req.Type),
		Active: true,
	}
	if err := as.store.Accounts().Create(r.Context(), account); err != nil {
		log.Printf("[ACCOUNT] Failed to create account for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to create account", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
}

// GetAccount retrieves a single account
// @Summary Get account by ID
// @Description Retrieve an account with its current balance
// @Tags accounts
// @Produce json
// @Param accountId path string true "Account ID"
// @Success 200 {object} models.Account
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{accountId} [get]
func (as *AccountService) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	account, err := as.store.Accounts().Get(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
			return
		}
		SendErrorResponse(w, "Failed to fetch account", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

// ListAccounts lists the authenticated user's accounts
// @Summary List accounts
// @Description List all accounts belonging to the authenticated user
// @Tags accounts
// @Produce json
// @Success 200 {array} models.Account
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts [get]
func (as *AccountService) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	accounts, err := as.store.Accounts().FindByUser(r.Context(), userID)
	if err != nil {
		SendErrorResponse(w, "Failed to fetch accounts", http.StatusInternalServerError, nil)
		return
	}
	if len(accounts) == 0 {
		SendErrorResponse(w, "No accounts found for this user", http.StatusNotFound, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// ActivateAccount marks an account active
// @Summary Activate an account
// @Description Set the account's active flag. Activating an already active account is a no-op.
// @Tags accounts
// @Produce json
// @Param accountId path string true "Account ID"
// @Success 200 {object} models.Account
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{accountId}/activate [patch]
func (as *AccountService) ActivateAccount(w http.ResponseWriter, r *http.Request) {
	as.setActive(w, r, true)
}

// DeactivateAccount marks an account inactive
// @Summary Deactivate an account
// @Description Clear the account's active flag. Deactivating an already inactive account is a no-op.
// @Tags accounts
// @Produce json
// @Param accountId path string true "Account ID"
// @Success 200 {object} models.Account
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{accountId}/deactivate [patch]
func (as *AccountService) DeactivateAccount(w http.ResponseWriter, r *http.Request) {
	as.setActive(w, r, false)
}

func (as *AccountService) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	accountID := chi.URLParam(r, "accountId")

	account, err := as.store.Accounts().SetActive(r.Context(), accountID, active)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
			return
		}
		SendErrorResponse(w, "Failed to update account", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}
