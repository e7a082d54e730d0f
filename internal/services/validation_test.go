package services

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangebank/backend/internal/ledger"
)

func TestSendErrorResponse(t *testing.T) {
	t.Run("plain message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		SendErrorResponse(rec, "Something failed", 400, nil)

		assert.Equal(t, 400, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "Something failed", resp.Error)
		assert.Empty(t, resp.Details)
	})

	t.Run("validation details per field", func(t *testing.T) {
		vh := NewValidationHelper()
		err := vh.ValidateStruct(&transferRequest{Amount: -3})
		require.Error(t, err)

		rec := httptest.NewRecorder()
		SendErrorResponse(rec, "Validation failed", 400, err)

		resp := decodeErrorResponse(t, rec)
		assert.Contains(t, resp.Details, "FromAccountID")
		assert.Contains(t, resp.Details, "ToAccountID")
		assert.Contains(t, resp.Details, "Amount")
	})
}

func TestSendLedgerError(t *testing.T) {
	t.Run("business kinds map to their fixed status", func(t *testing.T) {
		cases := []struct {
			kind   ledger.Kind
			status int
		}{
			{ledger.InvalidAmount, 400},
			{ledger.InsufficientFunds, 400},
			{ledger.SameAccountTransfer, 400},
			{ledger.PendingTransaction, 400},
			{ledger.InvalidAccountType, 400},
			{ledger.BelowMinimumInvestment, 400},
			{ledger.AccountNotFound, 404},
			{ledger.AssetNotFound, 404},
			{ledger.InvestmentAccountNotFound, 404},
		}
		for _, tc := range cases {
			t.Run(string(tc.kind), func(t *testing.T) {
				rec := httptest.NewRecorder()
				SendLedgerError(rec, ledger.NewError(tc.kind, "rejected"))

				assert.Equal(t, tc.status, rec.Code)
				resp := decodeErrorResponse(t, rec)
				assert.Equal(t, string(tc.kind), resp.Code)
				assert.Equal(t, "rejected", resp.Error)
			})
		}
	})

	t.Run("unexpected errors become 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		SendLedgerError(rec, errors.New("connection reset"))

		assert.Equal(t, 500, rec.Code)
		resp := decodeErrorResponse(t, rec)
		assert.Equal(t, "Internal server error", resp.Error)
		assert.Empty(t, resp.Code)
	})
}
