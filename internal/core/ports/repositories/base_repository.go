package repositories

import "context"

// TransactionManager runs a unit of work inside one storage transaction.
type TransactionManager interface {
	// WithinTx begins a transaction, calls fn with a context that carries it and
	// commits when fn returns nil. Any error rolls the whole unit back.
	// Repository calls made with the context passed to fn join the transaction;
	// a WithinTx nested inside another joins the outer one.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
