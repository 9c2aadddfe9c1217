package accountstate

import (
	"testing"

	"github.com/go-petr/tx-processor/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func deposit(client uint16, tx uint32, amount string) domain.Transaction {
	return domain.Transaction{
		Type:     domain.TypeDeposit,
		ClientID: client,
		TxID:     tx,
		Amount:   decimal.RequireFromString(amount),
	}
}

func withdrawal(client uint16, tx uint32, amount string) domain.Transaction {
	return domain.Transaction{
		Type:     domain.TypeWithdrawal,
		ClientID: client,
		TxID:     tx,
		Amount:   decimal.RequireFromString(amount),
	}
}

func reference(ttype domain.TransactionType, client uint16, tx uint32) domain.Transaction {
	return domain.Transaction{Type: ttype, ClientID: client, TxID: tx}
}

// requireBalances checks the account invariant total == available + held
// along with the expected balances.
func requireBalances(t *testing.T, s *State, available, held string, locked bool) {
	t.Helper()

	acc := s.Account()
	require.True(t, acc.Available.Equal(decimal.RequireFromString(available)),
		"available: got %s want %s", acc.Available, available)
	require.True(t, acc.Held.Equal(decimal.RequireFromString(held)),
		"held: got %s want %s", acc.Held, held)
	require.True(t, acc.Total().Equal(acc.Available.Add(acc.Held)))
	require.True(t, acc.Available.GreaterThanOrEqual(decimal.Zero))
	require.True(t, acc.Held.GreaterThanOrEqual(decimal.Zero))
	require.Equal(t, locked, acc.Locked)
}

func TestApply(t *testing.T) {
	testCases := []struct {
		name          string
		txs           []domain.Transaction
		wantErrs      []error
		wantAvailable string
		wantHeld      string
		wantLocked    bool
	}{
		{
			name: "Deposits accumulate",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				deposit(1, 2, "5"),
			},
			wantErrs:      []error{nil, nil},
			wantAvailable: "15",
			wantHeld:      "0",
		},
		{
			name: "Withdrawal reduces available",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				withdrawal(1, 2, "4.5"),
			},
			wantErrs:      []error{nil, nil},
			wantAvailable: "5.5",
			wantHeld:      "0",
		},
		{
			name: "Withdrawal over available fails",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				deposit(1, 2, "5"),
				withdrawal(1, 3, "20"),
			},
			wantErrs:      []error{nil, nil, domain.ErrInsufficientFunds},
			wantAvailable: "15",
			wantHeld:      "0",
		},
		{
			name: "Duplicate deposit tx id fails",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				deposit(1, 1, "10"),
			},
			wantErrs:      []error{nil, domain.ErrDuplicateTxID},
			wantAvailable: "10",
			wantHeld:      "0",
		},
		{
			name: "Duplicate withdrawal tx id fails",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				withdrawal(1, 1, "5"),
			},
			wantErrs:      []error{nil, domain.ErrDuplicateTxID},
			wantAvailable: "10",
			wantHeld:      "0",
		},
		{
			name: "Dispute holds funds",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				reference(domain.TypeDispute, 1, 1),
			},
			wantErrs:      []error{nil, nil},
			wantAvailable: "0",
			wantHeld:      "10",
		},
		{
			name: "Resolve releases held funds",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				reference(domain.TypeDispute, 1, 1),
				reference(domain.TypeResolve, 1, 1),
			},
			wantErrs:      []error{nil, nil, nil},
			wantAvailable: "10",
			wantHeld:      "0",
		},
		{
			name: "Chargeback removes funds and locks",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				reference(domain.TypeDispute, 1, 1),
				reference(domain.TypeChargeback, 1, 1),
			},
			wantErrs:      []error{nil, nil, nil},
			wantAvailable: "0",
			wantHeld:      "0",
			wantLocked:    true,
		},
		{
			name: "Locked account rejects everything",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				reference(domain.TypeDispute, 1, 1),
				reference(domain.TypeChargeback, 1, 1),
				deposit(1, 2, "5"),
				withdrawal(1, 3, "1"),
				reference(domain.TypeDispute, 1, 1),
			},
			wantErrs: []error{
				nil, nil, nil,
				domain.ErrAccountLocked,
				domain.ErrAccountLocked,
				domain.ErrAccountLocked,
			},
			wantAvailable: "0",
			wantHeld:      "0",
			wantLocked:    true,
		},
		{
			name: "Dispute of unknown tx fails",
			txs: []domain.Transaction{
				reference(domain.TypeDispute, 1, 999),
			},
			wantErrs:      []error{domain.ErrUnknownTx},
			wantAvailable: "0",
			wantHeld:      "0",
		},
		{
			name: "Resolve of unknown tx fails",
			txs: []domain.Transaction{
				reference(domain.TypeResolve, 1, 999),
			},
			wantErrs:      []error{domain.ErrUnknownTx},
			wantAvailable: "0",
			wantHeld:      "0",
		},
		{
			name: "Chargeback of unknown tx fails",
			txs: []domain.Transaction{
				reference(domain.TypeChargeback, 1, 999),
			},
			wantErrs:      []error{domain.ErrUnknownTx},
			wantAvailable: "0",
			wantHeld:      "0",
		},
		{
			name: "Dispute of already disputed tx fails",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				reference(domain.TypeDispute, 1, 1),
				reference(domain.TypeDispute, 1, 1),
			},
			wantErrs:      []error{nil, nil, domain.ErrInvalidDisputeState},
			wantAvailable: "0",
			wantHeld:      "10",
		},
		{
			name: "Dispute of resolved tx fails",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				reference(domain.TypeDispute, 1, 1),
				reference(domain.TypeResolve, 1, 1),
				reference(domain.TypeDispute, 1, 1),
			},
			wantErrs:      []error{nil, nil, nil, domain.ErrInvalidDisputeState},
			wantAvailable: "10",
			wantHeld:      "0",
		},
		{
			name: "Resolve without dispute fails",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				reference(domain.TypeResolve, 1, 1),
			},
			wantErrs:      []error{nil, domain.ErrInvalidDisputeState},
			wantAvailable: "10",
			wantHeld:      "0",
		},
		{
			name: "Chargeback without dispute fails",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				reference(domain.TypeChargeback, 1, 1),
			},
			wantErrs:      []error{nil, domain.ErrInvalidDisputeState},
			wantAvailable: "10",
			wantHeld:      "0",
		},
		{
			name: "Dispute of withdrawal entry fails",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				withdrawal(1, 2, "5"),
				reference(domain.TypeDispute, 1, 2),
			},
			wantErrs:      []error{nil, nil, domain.ErrInvalidDisputeState},
			wantAvailable: "5",
			wantHeld:      "0",
		},
		{
			name: "Dispute exceeding available funds fails",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				withdrawal(1, 2, "8"),
				reference(domain.TypeDispute, 1, 1),
			},
			wantErrs:      []error{nil, nil, domain.ErrInsufficientFunds},
			wantAvailable: "2",
			wantHeld:      "0",
		},
		{
			name: "Failed withdrawal is not disputable",
			txs: []domain.Transaction{
				deposit(1, 1, "10"),
				withdrawal(1, 2, "20"),
				reference(domain.TypeDispute, 1, 2),
			},
			wantErrs:      []error{nil, domain.ErrInsufficientFunds, domain.ErrUnknownTx},
			wantAvailable: "10",
			wantHeld:      "0",
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, len(tc.txs), len(tc.wantErrs))

			s := New(tc.txs[0].ClientID)
			for i, tx := range tc.txs {
				err := s.Apply(tx)
				if tc.wantErrs[i] == nil {
					require.NoError(t, err, "tx %d", i)
				} else {
					require.ErrorIs(t, err, tc.wantErrs[i], "tx %d", i)
				}
			}

			requireBalances(t, s, tc.wantAvailable, tc.wantHeld, tc.wantLocked)
		})
	}
}

func TestApplyUnsupportedType(t *testing.T) {
	s := New(1)
	err := s.Apply(domain.Transaction{Type: "transfer", ClientID: 1, TxID: 1})
	require.ErrorIs(t, err, domain.ErrUnsupportedType)
	requireBalances(t, s, "0", "0", false)
}

func TestLedgerStatusTransitions(t *testing.T) {
	s := New(1)

	require.NoError(t, s.Apply(deposit(1, 1, "10")))
	e, ok := s.Entry(1)
	require.True(t, ok)
	require.Equal(t, domain.StatusNormal, e.Status)

	require.NoError(t, s.Apply(reference(domain.TypeDispute, 1, 1)))
	e, _ = s.Entry(1)
	require.Equal(t, domain.StatusDisputed, e.Status)

	require.NoError(t, s.Apply(reference(domain.TypeResolve, 1, 1)))
	e, _ = s.Entry(1)
	require.Equal(t, domain.StatusResolved, e.Status)

	// A resolved entry is terminal for the dispute lifecycle.
	require.ErrorIs(t, s.Apply(reference(domain.TypeDispute, 1, 1)), domain.ErrInvalidDisputeState)
	require.ErrorIs(t, s.Apply(reference(domain.TypeChargeback, 1, 1)), domain.ErrInvalidDisputeState)

	_, ok = s.Entry(999)
	require.False(t, ok)
}

func TestRejectionLeavesStateUntouched(t *testing.T) {
	s := New(1)
	require.NoError(t, s.Apply(deposit(1, 1, "15")))
	before := s.Account()

	require.ErrorIs(t, s.Apply(withdrawal(1, 2, "20")), domain.ErrInsufficientFunds)
	require.ErrorIs(t, s.Apply(deposit(1, 1, "15")), domain.ErrDuplicateTxID)
	require.ErrorIs(t, s.Apply(reference(domain.TypeDispute, 1, 42)), domain.ErrUnknownTx)

	require.Equal(t, before.ClientID, s.Account().ClientID)
	require.True(t, before.Available.Equal(s.Account().Available))
	require.True(t, before.Held.Equal(s.Account().Held))
	require.Equal(t, before.Locked, s.Account().Locked)
}
