package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/budget_ledger/internal/models"
	"github.com/SscSPs/budget_ledger/internal/utils/mapping"
	"github.com/SscSPs/budget_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, account_id, payee_id, amount, currency_code, txn_date, memo,
		category_id, status, transfer_transaction_id, created_at, last_updated_at`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.AccountID,
		&m.PayeeID,
		&m.Amount,
		&m.CurrencyCode,
		&m.Date,
		&m.Memo,
		&m.CategoryID,
		&m.Status,
		&m.TransferTransactionID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveTransaction inserts a new transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := r.db(ctx).Exec(ctx, query,
		m.TransactionID,
		m.AccountID,
		m.PayeeID,
		m.Amount,
		m.CurrencyCode,
		m.Date,
		m.Memo,
		m.CategoryID,
		m.Status,
		m.TransferTransactionID,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, mapError(err))
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.db(ctx).QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// UpdateTransaction rewrites a transaction row.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET account_id = $2, payee_id = $3, amount = $4, currency_code = $5, txn_date = $6, memo = $7,
		    category_id = $8, status = $9, transfer_transaction_id = $10, last_updated_at = $11
		WHERE transaction_id = $1;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		m.TransactionID,
		m.AccountID,
		m.PayeeID,
		m.Amount,
		m.CurrencyCode,
		m.Date,
		m.Memo,
		m.CategoryID,
		m.Status,
		m.TransferTransactionID,
		m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, mapError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, m.TransactionID)
	}
	return nil
}

// DeleteTransaction deletes a transaction row.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	cmdTag, err := r.db(ctx).Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, mapError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return nil
}

// ListTransactionsByAccount retrieves a page of an account's transactions, newest first.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1`
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (txn_date, created_at, transaction_id) < ($2, $3, $4)`
		args = append(args, lastDate, lastCreatedAt, lastID)
	}
	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY txn_date DESC, created_at DESC, transaction_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt, last.TransactionID)
		next = &token
	}
	return txns, next, nil
}

// SumTransactionsByStatus totals an account's transactions by clearing state.
func (r *PgxTransactionRepository) SumTransactionsByStatus(ctx context.Context, accountID string) (models.StatusTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status IN ('CLEARED', 'RECONCILED')), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'UNCLEARED'), 0)
		FROM transactions
		WHERE account_id = $1;
	`
	var totals models.StatusTotals
	if err := r.db(ctx).QueryRow(ctx, query, accountID).Scan(&totals.Cleared, &totals.Uncleared); err != nil {
		return models.StatusTotals{}, fmt.Errorf("failed to sum transactions for account %s: %w", accountID, err)
	}
	return totals, nil
}

// CountTransactionsReferencing counts transactions using the account, payee or category.
func (r *PgxTransactionRepository) CountTransactionsReferencing(ctx context.Context, accountID, payeeID, categoryID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM transactions
		WHERE ($1 <> '' AND account_id = $1)
		   OR ($2 <> '' AND payee_id = $2)
		   OR ($3 <> '' AND category_id = $3);
	`
	var n int
	if err := r.db(ctx).QueryRow(ctx, query, accountID, payeeID, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count referencing transactions: %w", err)
	}
	return n, nil
}
