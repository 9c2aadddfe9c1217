// Package domain provides defenitions of all entities.
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrDuplicateTxID indicates that the transaction ID was already recorded in the account ledger.
	ErrDuplicateTxID = errors.New("duplicate transaction id")
	// ErrInsufficientFunds indicates that the account available funds do not cover the amount.
	ErrInsufficientFunds = errors.New("insufficient available funds")
	// ErrUnknownTx indicates that the referenced transaction was never recorded for the account.
	ErrUnknownTx = errors.New("referenced transaction not found")
	// ErrInvalidDisputeState indicates that the ledger entry cannot make the requested dispute transition.
	ErrInvalidDisputeState = errors.New("invalid dispute state")
	// ErrAccountLocked indicates that the account was locked by a chargeback and rejects all transactions.
	ErrAccountLocked = errors.New("account locked")
	// ErrUnsupportedType indicates a transaction type the state machine does not handle.
	ErrUnsupportedType = errors.New("unsupported transaction type")
)

// Account holds the monetary state of one client.
type Account struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount returns an unlocked account with zero balances.
func NewAccount(clientID uint16) Account {
	return Account{
		ClientID:  clientID,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns the account total funds, available plus held.
func (a Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}
