package services

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangebank/backend/internal/middleware"
	"github.com/orangebank/backend/internal/models"
)

func newAccountRouter(f *ledgerFixture, userID int) http.Handler {
	as := NewAccountService(f.store)
	r := chi.NewRouter()
	if userID != 0 {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), userID)))
			})
		})
	}
	r.Post("/accounts", as.CreateAccount)
	r.Get("/accounts", as.ListAccounts)
	r.Get("/accounts/{accountId}", as.GetAccount)
	r.Patch("/accounts/{accountId}/activate", as.ActivateAccount)
	r.Patch("/accounts/{accountId}/deactivate", as.DeactivateAccount)
	return r
}

func TestAccountService_CreateAccount(t *testing.T) {
	f := newLedgerFixture(t)
	user := f.addUser(t, "alice", "12345678901")
	router := newAccountRouter(f, user.ID)

	t.Run("opens an account for the authenticated user", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/accounts", `{"type": "investment_account"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var account models.Account
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&account))
		assert.NotEmpty(t, account.ID)
		assert.Equal(t, user.ID, account.UserID)
		assert.Equal(t, models.InvestmentAccount, account.Type)
		assert.True(t, account.Active)
		assert.Equal(t, 0.0, account.Balance)
	})

	t.Run("rejects unknown account types", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/accounts", `{"type": "savings"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Validation failed", decodeErrorResponse(t, rec).Error)
	})

	t.Run("requires authentication", func(t *testing.T) {
		anon := newAccountRouter(f, 0)
		rec := doJSON(t, anon, http.MethodPost, "/accounts", `{"type": "current_account"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAccountService_GetAccount(t *testing.T) {
	f := newLedgerFixture(t)
	user := f.addUser(t, "alice", "12345678901")
	account := f.addAccount(t, user.ID, models.CurrentAccount, 250)
	router := newAccountRouter(f, user.ID)

	t.Run("found", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/accounts/"+account.ID, "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var got models.Account
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, 250.0, got.Balance)
	})

	t.Run("missing", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/accounts/missing", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Account not found", decodeErrorResponse(t, rec).Error)
	})
}

func TestAccountService_ListAccounts(t *testing.T) {
	t.Run("lists the user's accounts", func(t *testing.T) {
		f := newLedgerFixture(t)
		user := f.addUser(t, "alice", "12345678901")
		f.addAccount(t, user.ID, models.CurrentAccount, 100)
		f.addAccount(t, user.ID, models.InvestmentAccount, 0)
		router := newAccountRouter(f, user.ID)

		rec := doJSON(t, router, http.MethodGet, "/accounts", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Accounts []models.Account `json:"accounts"`
			Count    int              `json:"count"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 2, resp.Count)
	})

	t.Run("no accounts", func(t *testing.T) {
		f := newLedgerFixture(t)
		user := f.addUser(t, "alice", "12345678901")
		router := newAccountRouter(f, user.ID)

		rec := doJSON(t, router, http.MethodGet, "/accounts", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "No accounts found for this user", decodeErrorResponse(t, rec).Error)
	})
}

func TestAccountService_ActivationLifecycle(t *testing.T) {
	f := newLedgerFixture(t)
	user := f.addUser(t, "alice", "12345678901")
	account := f.addAccount(t, user.ID, models.CurrentAccount, 100)
	router := newAccountRouter(f, user.ID)

	rec := doJSON(t, router, http.MethodPatch, "/accounts/"+account.ID+"/deactivate", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var got models.Account
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.False(t, got.Active)

	// deactivating twice is a no-op
	rec = doJSON(t, router, http.MethodPatch, "/accounts/"+account.ID+"/deactivate", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/accounts/"+account.ID+"/activate", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	got = models.Account{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.True(t, got.Active)

	rec = doJSON(t, router, http.MethodPatch, "/accounts/missing/activate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountService_BodyHygiene(t *testing.T) {
	f := newLedgerFixture(t)
	user := f.addUser(t, "alice", "12345678901")
	router := newAccountRouter(f, user.ID)

	rec := doJSON(t, router, http.MethodPost, "/accounts", strings.Repeat(" ", 2)+"not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeErrorResponse(t, rec).Error)
}
