package ports

import "context"

// TxManager runs fn inside a single database transaction.
// Repositories called with the ctx passed to fn join that transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
