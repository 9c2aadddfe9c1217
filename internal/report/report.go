// Package report renders the final account table.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-petr/tx-processor/internal/domain"
)

// Write renders the accounts as CSV rows with the
// `client,available,held,total,locked` schema, amounts fixed to four decimal
// places and rows sorted by client ID for deterministic output.
func Write(w io.Writer, accounts []domain.Account) error {
	sorted := make([]domain.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ClientID < sorted[j].ClientID
	})

	if _, err := fmt.Fprintln(w, "client,available,held,total,locked"); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}

	for _, a := range sorted {
		_, err := fmt.Fprintf(w, "%d,%s,%s,%s,%t\n",
			a.ClientID,
			a.Available.StringFixed(4),
			a.Held.StringFixed(4),
			a.Total().StringFixed(4),
			a.Locked,
		)
		if err != nil {
			return fmt.Errorf("writing report row for client %d: %w", a.ClientID, err)
		}
	}

	return nil
}
