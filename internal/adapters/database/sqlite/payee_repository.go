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
)

type SQLitePayeeRepository struct {
	BaseRepository
}

var _ portsrepo.PayeeRepositoryFacade = (*SQLitePayeeRepository)(nil)

const payeeColumns = `payee_id, budget_id, name, transfer_account_id, created_at, last_updated_at`

func scanPayee(row scanner) (models.Payee, error) {
	var m models.Payee
	err := row.Scan(&m.PayeeID, &m.BudgetID, &m.Name, &m.TransferAccountID, &m.CreatedAt, &m.LastUpdatedAt)
	return m, err
}

// SavePayee inserts a new payee.
func (r *SQLitePayeeRepository) SavePayee(ctx context.Context, payee domain.Payee) error {
	m := mapping.ToModelPayee(payee)
	_, err := r.db(ctx).ExecContext(ctx, `INSERT INTO payees (`+payeeColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		m.PayeeID, m.BudgetID, m.Name, m.TransferAccountID, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save payee %q: %w", m.Name, mapError(err))
	}
	return nil
}

func (r *SQLitePayeeRepository) findPayee(ctx context.Context, what, where string, args ...any) (*domain.Payee, error) {
	m, err := scanPayee(r.db(ctx).QueryRowContext(ctx, `SELECT `+payeeColumns+` FROM payees WHERE `+where+` LIMIT 1`, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: payee %s", apperrors.ErrNotFound, what)
		}
		return nil, fmt.Errorf("failed to find payee %s: %w", what, err)
	}
	p := mapping.ToDomainPayee(m)
	return &p, nil
}

// FindPayeeByID retrieves a payee by its ID.
func (r *SQLitePayeeRepository) FindPayeeByID(ctx context.Context, payeeID string) (*domain.Payee, error) {
	return r.findPayee(ctx, payeeID, `payee_id = ?`, payeeID)
}

// FindPayeeByTransferAccount retrieves the transfer payee of an account.
func (r *SQLitePayeeRepository) FindPayeeByTransferAccount(ctx context.Context, accountID string) (*domain.Payee, error) {
	return r.findPayee(ctx, "for account "+accountID, `transfer_account_id = ?`, accountID)
}

// FindPayeeByName retrieves a regular payee by name.
func (r *SQLitePayeeRepository) FindPayeeByName(ctx context.Context, budgetID, name string) (*domain.Payee, error) {
	return r.findPayee(ctx, fmt.Sprintf("%q", name),
		`budget_id = ? AND name = ? AND transfer_account_id IS NULL ORDER BY created_at, payee_id`, budgetID, name)
}

// ListPayees retrieves the payees of a budget.
func (r *SQLitePayeeRepository) ListPayees(ctx context.Context, budgetID string) ([]domain.Payee, error) {
	rows, err := r.db(ctx).QueryContext(ctx, `SELECT `+payeeColumns+` FROM payees WHERE budget_id = ? ORDER BY name, payee_id`, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payees for budget %s: %w", budgetID, err)
	}
	defer rows.Close()

	payees := []domain.Payee{}
	for rows.Next() {
		m, err := scanPayee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payee row: %w", err)
		}
		payees = append(payees, mapping.ToDomainPayee(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payee rows: %w", err)
	}
	return payees, nil
}

// DeletePayee deletes a payee.
func (r *SQLitePayeeRepository) DeletePayee(ctx context.Context, payeeID string) error {
	res, err := r.db(ctx).ExecContext(ctx, `DELETE FROM payees WHERE payee_id = ?`, payeeID)
	if err != nil {
		return fmt.Errorf("failed to delete payee %s: %w", payeeID, mapError(err))
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: payee %s", apperrors.ErrNotFound, payeeID)
	}
	return nil
}
