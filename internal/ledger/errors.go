// Package ledger defines the closed set of business errors raised by the
// ledger engine. Callers branch on Kind, never on message text; the HTTP
// layer maps each kind to exactly one status code.
package ledger

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	InvalidAmount              Kind = "INVALID_AMOUNT"
	AccountNotFound            Kind = "ACCOUNT_NOT_FOUND"
	InvalidAccountType         Kind = "INVALID_ACCOUNT_TYPE"
	InsufficientFunds          Kind = "INSUFFICIENT_FUNDS"
	SameAccountTransfer        Kind = "SAME_ACCOUNT_TRANSFER"
	PendingTransaction         Kind = "PENDING_TRANSACTION"
	AssetNotFound              Kind = "ASSET_NOT_FOUND"
	InvestmentAccountNotFound  Kind = "INVESTMENT_ACCOUNT_NOT_FOUND"
	BelowMinimumInvestment     Kind = "BELOW_MINIMUM_INVESTMENT"
	InsufficientAssetQuantity  Kind = "INSUFFICIENT_ASSET_QUANTITY"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds a tagged business error.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the business error kind from err. The second return is
// false for unexpected (non-business) failures.
func KindOf(err error) (Kind, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind, true
	}
	return "", false
}

// HTTPStatus is the fixed, total mapping from error kind to transport status:
// not-found kinds map to 404, everything else is a business-rule rejection.
func (k Kind) HTTPStatus() int {
	switch k {
	case AccountNotFound, AssetNotFound, InvestmentAccountNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
