// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces rather than on pgx directly,
// which keeps the inventory engine testable with in-memory repositories.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction.
//
// A movement posts its ledger entries and balance updates through one
// RunInTransaction call, so either all of them land or none do. Nested
// calls join the transaction already carried in the context instead of
// opening a new one.
type Manager interface {
	// RunInTransaction commits when fn returns nil and rolls back
	// when fn returns an error.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transactions for multi-query reads
// that need a consistent snapshot, such as stock card pages that pair
// a count with a page of rows.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction. Writes inside
	// fn fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
