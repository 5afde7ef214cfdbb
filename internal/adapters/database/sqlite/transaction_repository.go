package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/budget_ledger/internal/models"
	"github.com/SscSPs/budget_ledger/internal/utils/mapping"
	"github.com/SscSPs/budget_ledger/internal/utils/pagination"
)

type SQLiteTransactionRepository struct {
	BaseRepository
}

var _ portsrepo.TransactionRepositoryFacade = (*SQLiteTransactionRepository)(nil)

const transactionColumns = `transaction_id, account_id, payee_id, amount, currency_code, txn_date, memo,
	category_id, status, transfer_transaction_id, created_at, last_updated_at`

func scanTransaction(row scanner) (models.Transaction, error) {
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
func (r *SQLiteTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `INSERT INTO transactions (` + transactionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db(ctx).ExecContext(ctx, query,
		m.TransactionID,
		m.AccountID,
		m.PayeeID,
		m.Amount,
		m.CurrencyCode,
		m.Date,
		m.Memo,
		m.CategoryID,
		string(m.Status),
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
func (r *SQLiteTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	m, err := scanTransaction(r.db(ctx).QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = ?`, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// UpdateTransaction rewrites a transaction row.
func (r *SQLiteTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET account_id = ?, payee_id = ?, amount = ?, currency_code = ?, txn_date = ?, memo = ?,
		    category_id = ?, status = ?, transfer_transaction_id = ?, last_updated_at = ?
		WHERE transaction_id = ?`
	res, err := r.db(ctx).ExecContext(ctx, query,
		m.AccountID,
		m.PayeeID,
		m.Amount,
		m.CurrencyCode,
		m.Date,
		m.Memo,
		m.CategoryID,
		string(m.Status),
		m.TransferTransactionID,
		m.LastUpdatedAt,
		m.TransactionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, mapError(err))
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, m.TransactionID)
	}
	return nil
}

// DeleteTransaction deletes a transaction row.
func (r *SQLiteTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	res, err := r.db(ctx).ExecContext(ctx, `DELETE FROM transactions WHERE transaction_id = ?`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, mapError(err))
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return nil
}

// ListTransactionsByAccount retrieves a page of an account's transactions, newest first.
func (r *SQLiteTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = ?`
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (txn_date, created_at, transaction_id) < (?, ?, ?)`
		args = append(args, lastDate.UTC(), lastCreatedAt.UTC(), lastID)
	}
	// Fetch one extra row to know whether another page exists.
	query += ` ORDER BY txn_date DESC, created_at DESC, transaction_id DESC LIMIT ?`
	args = append(args, limit+1)

	rows, err := r.db(ctx).QueryContext(ctx, query, args...)
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
func (r *SQLiteTransactionRepository) SumTransactionsByStatus(ctx context.Context, accountID string) (models.StatusTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status IN ('CLEARED', 'RECONCILED') THEN amount END), 0),
			COALESCE(SUM(CASE WHEN status = 'UNCLEARED' THEN amount END), 0)
		FROM transactions
		WHERE account_id = ?`
	var totals models.StatusTotals
	if err := r.db(ctx).QueryRowContext(ctx, query, accountID).Scan(&totals.Cleared, &totals.Uncleared); err != nil {
		return models.StatusTotals{}, fmt.Errorf("failed to sum transactions for account %s: %w", accountID, err)
	}
	return totals, nil
}

// CountTransactionsReferencing counts transactions using the account, payee or category.
func (r *SQLiteTransactionRepository) CountTransactionsReferencing(ctx context.Context, accountID, payeeID, categoryID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM transactions
		WHERE (?1 <> '' AND account_id = ?1)
		   OR (?2 <> '' AND payee_id = ?2)
		   OR (?3 <> '' AND category_id = ?3)`
	var n int
	if err := r.db(ctx).QueryRowContext(ctx, query, accountID, payeeID, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count referencing transactions: %w", err)
	}
	return n, nil
}
