package domain

import "github.com/shopspring/decimal"

// TransactionType identifies the instruction carried by a transaction record.
type TransactionType string

// All supported transaction types, matching the input record tokens.
const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeDispute    TransactionType = "dispute"
	TypeResolve    TransactionType = "resolve"
	TypeChargeback TransactionType = "chargeback"
)

// ParseTransactionType converts an input token into a TransactionType.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch t := TransactionType(s); t {
	case TypeDeposit, TypeWithdrawal, TypeDispute, TypeResolve, TypeChargeback:
		return t, true
	}

	return "", false
}

// Transaction is one immutable instruction read from the input.
//
// For deposits and withdrawals TxID names a new transaction and Amount is set.
// For disputes, resolves and chargebacks TxID references a prior deposit or
// withdrawal and Amount is zero.
type Transaction struct {
	Type     TransactionType
	ClientID uint16
	TxID     uint32
	Amount   decimal.Decimal
}

// EntryStatus tracks the dispute lifecycle of a ledger entry.
type EntryStatus string

// Ledger entry statuses. Transitions go Normal -> Disputed and
// Disputed -> Resolved or ChargedBack, never backward.
const (
	StatusNormal      EntryStatus = "normal"
	StatusDisputed    EntryStatus = "disputed"
	StatusResolved    EntryStatus = "resolved"
	StatusChargedBack EntryStatus = "charged_back"
)

// LedgerEntry records an applied deposit or withdrawal so that later
// dispute references can be validated against it.
type LedgerEntry struct {
	Amount decimal.Decimal
	Kind   TransactionType
	Status EntryStatus
}
