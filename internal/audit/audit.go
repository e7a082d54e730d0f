// Package audit emits structured JSON audit events for every money movement.
// Events go to the process log; shipping them elsewhere is a deployment
// concern, not a code one.
package audit

import (
	"encoding/json"
	"log"
	"time"
)

type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	EventType     string    `json:"event_type"`
	TransactionID string    `json:"transaction_id"`
	AccountID     string    `json:"account_id,omitempty"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	Details       any       `json:"details,omitempty"`
}

type Logger struct{}

func NewLogger() *Logger {
	return &Logger{}
}

func (a *Logger) LogMovement(transactionID, accountID, operation string, amount float64) {
	a.log(Event{
		Timestamp:     time.Now(),
		EventType:     operation,
		TransactionID: transactionID,
		AccountID:     accountID,
		Amount:        amount,
		Status:        "SUCCESS",
	})
}

func (a *Logger) LogTransfer(transactionID, fromAccount, toAccount string, amount float64) {
	a.log(Event{
		Timestamp:     time.Now(),
		EventType:     "TRANSFER",
		TransactionID: transactionID,
		Amount:        amount,
		Status:        "SUCCESS",
		Details: map[string]string{
			"from_account": fromAccount,
			"to_account":   toAccount,
		},
	})
}

func (a *Logger) LogSettlement(transactionID, accountID, assetID string, amount float64) {
	a.log(Event{
		Timestamp:     time.Now(),
		EventType:     "SETTLEMENT",
		TransactionID: transactionID,
		AccountID:     accountID,
		Amount:        amount,
		Status:        "SUCCESS",
		Details:       map[string]string{"asset": assetID},
	})
}

func (a *Logger) LogError(accountID, operation string, err error) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: operation,
		AccountID: accountID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	data, _ := json.Marshal(event)
	log.Printf("AUDIT: %s", string(data))
}
