package sqlite

import (
	"database/sql"
	"time"

	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the SQLite repositories over a database opened
// with database.OpenSQLite.
func NewRepositoryProvider(db *sql.DB, txTimeout time.Duration) portsrepo.RepositoryProvider {
	base := BaseRepository{DB: db}
	return portsrepo.RepositoryProvider{
		TxManager:       &TxManager{BaseRepository: base, timeout: txTimeout},
		BudgetRepo:      &SQLiteBudgetRepository{BaseRepository: base},
		AccountRepo:     &SQLiteAccountRepository{BaseRepository: base},
		CategoryRepo:    &SQLiteCategoryRepository{BaseRepository: base},
		PayeeRepo:       &SQLitePayeeRepository{BaseRepository: base},
		TransactionRepo: &SQLiteTransactionRepository{BaseRepository: base},
	}
}
