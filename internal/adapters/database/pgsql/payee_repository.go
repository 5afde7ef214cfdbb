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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPayeeRepository struct {
	BaseRepository
}

func newPgxPayeeRepository(pool *pgxpool.Pool) portsrepo.PayeeRepositoryFacade {
	return &PgxPayeeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PayeeRepositoryFacade = (*PgxPayeeRepository)(nil)

const payeeColumns = `payee_id, budget_id, name, transfer_account_id, created_at, last_updated_at`

func scanPayee(row pgx.Row) (models.Payee, error) {
	var m models.Payee
	err := row.Scan(&m.PayeeID, &m.BudgetID, &m.Name, &m.TransferAccountID, &m.CreatedAt, &m.LastUpdatedAt)
	return m, err
}

// SavePayee inserts a new payee.
func (r *PgxPayeeRepository) SavePayee(ctx context.Context, payee domain.Payee) error {
	m := mapping.ToModelPayee(payee)
	query := `INSERT INTO payees (` + payeeColumns + `) VALUES ($1, $2, $3, $4, $5, $6);`
	if _, err := r.db(ctx).Exec(ctx, query, m.PayeeID, m.BudgetID, m.Name, m.TransferAccountID, m.CreatedAt, m.LastUpdatedAt); err != nil {
		return fmt.Errorf("failed to save payee %q: %w", m.Name, mapError(err))
	}
	return nil
}

func (r *PgxPayeeRepository) findPayee(ctx context.Context, what, where string, args ...any) (*domain.Payee, error) {
	query := `SELECT ` + payeeColumns + ` FROM payees WHERE ` + where + ` LIMIT 1;`
	m, err := scanPayee(r.db(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payee %s", apperrors.ErrNotFound, what)
		}
		return nil, fmt.Errorf("failed to find payee %s: %w", what, err)
	}
	p := mapping.ToDomainPayee(m)
	return &p, nil
}

// FindPayeeByID retrieves a payee by its ID.
func (r *PgxPayeeRepository) FindPayeeByID(ctx context.Context, payeeID string) (*domain.Payee, error) {
	return r.findPayee(ctx, payeeID, `payee_id = $1`, payeeID)
}

// FindPayeeByTransferAccount retrieves the transfer payee of an account.
func (r *PgxPayeeRepository) FindPayeeByTransferAccount(ctx context.Context, accountID string) (*domain.Payee, error) {
	return r.findPayee(ctx, "for account "+accountID, `transfer_account_id = $1`, accountID)
}

// FindPayeeByName retrieves a regular payee by name.
func (r *PgxPayeeRepository) FindPayeeByName(ctx context.Context, budgetID, name string) (*domain.Payee, error) {
	return r.findPayee(ctx, fmt.Sprintf("%q", name),
		`budget_id = $1 AND name = $2 AND transfer_account_id IS NULL ORDER BY created_at, payee_id`, budgetID, name)
}

// ListPayees retrieves the payees of a budget.
func (r *PgxPayeeRepository) ListPayees(ctx context.Context, budgetID string) ([]domain.Payee, error) {
	query := `SELECT ` + payeeColumns + ` FROM payees WHERE budget_id = $1 ORDER BY name, payee_id;`
	rows, err := r.db(ctx).Query(ctx, query, budgetID)
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
func (r *PgxPayeeRepository) DeletePayee(ctx context.Context, payeeID string) error {
	cmdTag, err := r.db(ctx).Exec(ctx, `DELETE FROM payees WHERE payee_id = $1;`, payeeID)
	if err != nil {
		return fmt.Errorf("failed to delete payee %s: %w", payeeID, mapError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payee %s", apperrors.ErrNotFound, payeeID)
	}
	return nil
}
