// Package input reads the transaction CSV and turns records into domain
// transactions, skipping malformed records upstream of the engine.
package input

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-petr/tx-processor/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidHeader indicates that the input does not start with the
	// mandatory `type,client,tx,amount` header line.
	ErrInvalidHeader = errors.New("invalid csv header, expected `type,client,tx,amount`")
	// ErrInvalidRecord indicates a record that cannot be parsed into a transaction.
	ErrInvalidRecord = errors.New("invalid record")
)

var expectedHeader = []string{"type", "client", "tx", "amount"}

// Reader is a single-pass transaction stream over a CSV source.
type Reader struct {
	csv    *csv.Reader
	logger zerolog.Logger
	line   int
}

// NewReader wraps the source and validates its header line.
func NewReader(ctx context.Context, r io.Reader) (*Reader, error) {
	c := csv.NewReader(r)
	c.FieldsPerRecord = -1
	c.TrimLeadingSpace = true

	header, err := c.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header line: %w", err)
	}

	if len(header) != len(expectedHeader) {
		return nil, ErrInvalidHeader
	}
	for i, want := range expectedHeader {
		if strings.TrimSpace(header[i]) != want {
			return nil, ErrInvalidHeader
		}
	}

	return &Reader{csv: c, logger: *zerolog.Ctx(ctx), line: 1}, nil
}

// Next returns the next well-formed transaction in file order. Malformed
// records are logged and skipped; false means the source is exhausted.
func (r *Reader) Next() (domain.Transaction, bool) {
	for {
		rec, err := r.csv.Read()
		r.line++

		if errors.Is(err, io.EOF) {
			return domain.Transaction{}, false
		}

		if err != nil {
			r.logger.Warn().Int("line", r.line).Err(err).Msg("skipping unreadable record")
			continue
		}

		tx, err := parseRecord(rec)
		if err != nil {
			r.logger.Warn().Int("line", r.line).Err(err).Msg("skipping malformed record")
			continue
		}

		return tx, true
	}
}

func parseRecord(rec []string) (domain.Transaction, error) {
	// Tolerate a trailing comma on records without an amount (`resolve,2,3,`).
	if len(rec) == 4 && strings.TrimSpace(rec[3]) == "" {
		rec = rec[:3]
	}

	if len(rec) != 3 && len(rec) != 4 {
		return domain.Transaction{}, fmt.Errorf("%w: expected 3 or 4 fields, got %d", ErrInvalidRecord, len(rec))
	}

	ttype, ok := domain.ParseTransactionType(strings.TrimSpace(rec[0]))
	if !ok {
		return domain.Transaction{}, fmt.Errorf("%w: unknown type %q", ErrInvalidRecord, rec[0])
	}

	clientID, err := strconv.ParseUint(strings.TrimSpace(rec[1]), 10, 16)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: client %q", ErrInvalidRecord, rec[1])
	}

	txID, err := strconv.ParseUint(strings.TrimSpace(rec[2]), 10, 32)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: tx %q", ErrInvalidRecord, rec[2])
	}

	tx := domain.Transaction{
		Type:     ttype,
		ClientID: uint16(clientID),
		TxID:     uint32(txID),
	}

	switch ttype {
	case domain.TypeDeposit, domain.TypeWithdrawal:
		if len(rec) != 4 {
			return domain.Transaction{}, fmt.Errorf("%w: %s without amount", ErrInvalidRecord, ttype)
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(rec[3]))
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("%w: amount %q", ErrInvalidRecord, rec[3])
		}
		if amount.IsNegative() {
			return domain.Transaction{}, fmt.Errorf("%w: negative amount %q", ErrInvalidRecord, rec[3])
		}

		tx.Amount = amount
	default:
		// Dispute references occasionally carry a spurious amount field.
		// It must at least be a number, but its value is ignored.
		if len(rec) == 4 {
			if _, err := decimal.NewFromString(strings.TrimSpace(rec[3])); err != nil {
				return domain.Transaction{}, fmt.Errorf("%w: amount %q", ErrInvalidRecord, rec[3])
			}
		}
	}

	return tx, nil
}
