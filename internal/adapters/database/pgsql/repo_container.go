package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the PostgreSQL repositories.
// txTimeout bounds every unit of work started through the transaction manager; zero disables it.
func NewRepositoryProvider(dbPool *pgxpool.Pool, txTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:       &TxManager{BaseRepository: BaseRepository{Pool: dbPool}, timeout: txTimeout},
		BudgetRepo:      newPgxBudgetRepository(dbPool),
		AccountRepo:     newPgxAccountRepository(dbPool),
		CategoryRepo:    newPgxCategoryRepository(dbPool),
		PayeeRepo:       newPgxPayeeRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
	}
}
