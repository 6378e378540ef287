// Package export defines the outbound ports for mirroring the transaction
// ledger to an external spreadsheet.
package export

import (
	"context"

	"kharcha/internal/core"
)

// LedgerWriter appends a single transaction row to the external ledger and
// returns an adapter-specific row reference for logging.
type LedgerWriter interface {
	Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
}

// LedgerDeleter removes a previously exported transaction, identified by the
// marker the writer embedded in the row.
type LedgerDeleter interface {
	Delete(ctx context.Context, id int64) error
}
