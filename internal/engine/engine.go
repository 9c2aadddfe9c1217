// Package engine partitions a single ordered transaction stream into
// per-account sub-streams and executes them concurrently.
package engine

import (
	"context"
	"time"

	"github.com/go-petr/tx-processor/internal/accountactor"
	"github.com/go-petr/tx-processor/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultActorBuffer is the default capacity of an actor inbox.
const DefaultActorBuffer = 32

// Stream produces transactions in input order. Next returns false once the
// stream is exhausted; it is never called again after that.
type Stream interface {
	Next() (domain.Transaction, bool)
}

// Options tune the engine run.
type Options struct {
	// ActorBuffer is the inbox capacity of each account actor.
	// Zero means DefaultActorBuffer.
	ActorBuffer int
	// TxDelay holds each actor back for the given duration per transaction.
	// Used by benchmarks to create contention, zero in production.
	TxDelay time.Duration
}

func (o Options) actorBuffer() int {
	if o.ActorBuffer <= 0 {
		return DefaultActorBuffer
	}

	return o.ActorBuffer
}

// Run consumes the stream to exhaustion and returns the final state of every
// discovered account, in order of first appearance.
//
// The dispatch loop runs on the calling goroutine and is the only writer of
// the routing table. It enqueues each transaction before reading the next
// one, which is what preserves per-client ordering; actors for different
// clients run concurrently on the Go scheduler. Once the stream ends every
// inbox is closed and the final accounts are collected.
func Run(ctx context.Context, src Stream, opts Options) []domain.Account {
	logger := zerolog.Ctx(ctx)

	actors := make(map[uint16]*accountactor.Actor)
	spawned := make([]*accountactor.Actor, 0)

	for {
		tx, ok := src.Next()
		if !ok {
			break
		}

		a, ok := actors[tx.ClientID]
		if !ok {
			a = accountactor.New(tx.ClientID, opts.actorBuffer())
			actors[tx.ClientID] = a
			spawned = append(spawned, a)

			go a.Run(*logger, opts.TxDelay)

			logger.Debug().Uint16("client_id", tx.ClientID).Msg("account actor spawned")
		}

		a.Enqueue(tx)
	}

	// Dispatch is done; closing the inboxes lets every actor drain and
	// terminate. A locked account stays registered until this point so
	// that its later transactions are rejected rather than re-creating
	// the account.
	for _, a := range spawned {
		a.Close()
	}

	accounts := make([]domain.Account, 0, len(spawned))
	for _, a := range spawned {
		accounts = append(accounts, <-a.Done())
	}

	logger.Info().Int("accounts", len(accounts)).Msg("transaction stream processed")

	return accounts
}
