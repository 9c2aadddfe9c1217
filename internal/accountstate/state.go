// Package accountstate implements the per-account transaction state machine.
package accountstate

import (
	"github.com/go-petr/tx-processor/internal/domain"
)

// State owns the monetary state and the dispute ledger of one account.
// It is not safe for concurrent use; the owning actor serializes access.
type State struct {
	account domain.Account
	ledger  map[uint32]*domain.LedgerEntry
}

// New returns the initial state for the given client.
func New(clientID uint16) *State {
	return &State{
		account: domain.NewAccount(clientID),
		ledger:  make(map[uint32]*domain.LedgerEntry),
	}
}

// Account returns a snapshot of the current account state.
func (s *State) Account() domain.Account {
	return s.account
}

// Entry returns the ledger entry recorded for the given transaction ID.
func (s *State) Entry(txID uint32) (domain.LedgerEntry, bool) {
	e, ok := s.ledger[txID]
	if !ok {
		return domain.LedgerEntry{}, false
	}

	return *e, true
}

// Apply executes one transaction against the account.
//
// Every returned error is a recoverable per-transaction outcome; the caller
// logs it and the account state is left exactly as it was.
func (s *State) Apply(tx domain.Transaction) error {
	if s.account.Locked {
		return domain.ErrAccountLocked
	}

	switch tx.Type {
	case domain.TypeDeposit:
		return s.deposit(tx)
	case domain.TypeWithdrawal:
		return s.withdraw(tx)
	case domain.TypeDispute:
		return s.dispute(tx)
	case domain.TypeResolve:
		return s.resolve(tx)
	case domain.TypeChargeback:
		return s.chargeback(tx)
	}

	return domain.ErrUnsupportedType
}

func (s *State) deposit(tx domain.Transaction) error {
	if _, ok := s.ledger[tx.TxID]; ok {
		return domain.ErrDuplicateTxID
	}

	s.account.Available = s.account.Available.Add(tx.Amount)
	s.ledger[tx.TxID] = &domain.LedgerEntry{
		Amount: tx.Amount,
		Kind:   domain.TypeDeposit,
		Status: domain.StatusNormal,
	}

	return nil
}

func (s *State) withdraw(tx domain.Transaction) error {
	if _, ok := s.ledger[tx.TxID]; ok {
		return domain.ErrDuplicateTxID
	}

	if s.account.Available.LessThan(tx.Amount) {
		return domain.ErrInsufficientFunds
	}

	s.account.Available = s.account.Available.Sub(tx.Amount)
	s.ledger[tx.TxID] = &domain.LedgerEntry{
		Amount: tx.Amount,
		Kind:   domain.TypeWithdrawal,
		Status: domain.StatusNormal,
	}

	return nil
}

// disputable reports whether a ledger entry may enter a dispute.
// Only deposit-originated entries qualify; withdrawals are assumed
// non-disputable until the business rule says otherwise, so reversing
// the decision is a one-line change here.
func disputable(e *domain.LedgerEntry) bool {
	return e.Kind == domain.TypeDeposit
}

func (s *State) dispute(tx domain.Transaction) error {
	e, ok := s.ledger[tx.TxID]
	if !ok {
		return domain.ErrUnknownTx
	}

	if e.Status != domain.StatusNormal || !disputable(e) {
		return domain.ErrInvalidDisputeState
	}

	if s.account.Available.LessThan(e.Amount) {
		return domain.ErrInsufficientFunds
	}

	s.account.Available = s.account.Available.Sub(e.Amount)
	s.account.Held = s.account.Held.Add(e.Amount)
	e.Status = domain.StatusDisputed

	return nil
}

func (s *State) resolve(tx domain.Transaction) error {
	e, ok := s.ledger[tx.TxID]
	if !ok {
		return domain.ErrUnknownTx
	}

	if e.Status != domain.StatusDisputed {
		return domain.ErrInvalidDisputeState
	}

	s.account.Held = s.account.Held.Sub(e.Amount)
	s.account.Available = s.account.Available.Add(e.Amount)
	e.Status = domain.StatusResolved

	return nil
}

func (s *State) chargeback(tx domain.Transaction) error {
	e, ok := s.ledger[tx.TxID]
	if !ok {
		return domain.ErrUnknownTx
	}

	if e.Status != domain.StatusDisputed {
		return domain.ErrInvalidDisputeState
	}

	s.account.Held = s.account.Held.Sub(e.Amount)
	e.Status = domain.StatusChargedBack
	s.account.Locked = true

	return nil
}
