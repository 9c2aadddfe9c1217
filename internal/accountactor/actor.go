// Package accountactor runs one goroutine per client account, serializing
// all mutation of that account.
package accountactor

import (
	"time"

	"github.com/go-petr/tx-processor/internal/accountstate"
	"github.com/go-petr/tx-processor/internal/domain"
	"github.com/rs/zerolog"
)

// Actor owns exactly one account. Transactions arrive on its inbox in
// dispatch order and are applied one at a time; closing the inbox makes the
// actor drain it and yield the final account on Done.
type Actor struct {
	clientID uint16
	inbox    chan domain.Transaction
	done     chan domain.Account
}

// New returns an actor for the given client with an inbox of the given
// capacity. The caller must start it with Run.
func New(clientID uint16, buffer int) *Actor {
	return &Actor{
		clientID: clientID,
		inbox:    make(chan domain.Transaction, buffer),
		done:     make(chan domain.Account, 1),
	}
}

// ClientID returns the ID of the owned account.
func (a *Actor) ClientID() uint16 {
	return a.clientID
}

// Enqueue hands a transaction to the actor, blocking while the inbox is
// full. Only the dispatcher calls it, so per-client order is input order.
func (a *Actor) Enqueue(tx domain.Transaction) {
	a.inbox <- tx
}

// Close signals that no more transactions will arrive. The actor keeps
// draining buffered transactions before yielding its account.
func (a *Actor) Close() {
	close(a.inbox)
}

// Done yields the final account state once the inbox is closed and drained.
func (a *Actor) Done() <-chan domain.Account {
	return a.done
}

// Run executes the receive loop. A rejected transaction is logged and
// discarded; it never terminates the loop. The delay, when positive, holds
// each application back to create contention in benchmarks.
func (a *Actor) Run(logger zerolog.Logger, delay time.Duration) {
	state := accountstate.New(a.clientID)

	for tx := range a.inbox {
		if delay > 0 {
			time.Sleep(delay)
		}

		if err := state.Apply(tx); err != nil {
			logger.Warn().
				Uint16("client_id", tx.ClientID).
				Uint32("tx_id", tx.TxID).
				Str("type", string(tx.Type)).
				Err(err).
				Msg("transaction rejected")
		}
	}

	a.done <- state.Account()
}
