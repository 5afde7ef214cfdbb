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

type PgxBudgetRepository struct {
	BaseRepository
}

func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

const budgetColumns = `budget_id, name, currency_code, created_at, last_updated_at`

// SaveBudget inserts a new budget.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)
	query := `INSERT INTO budgets (` + budgetColumns + `) VALUES ($1, $2, $3, $4, $5);`
	if _, err := r.db(ctx).Exec(ctx, query, m.BudgetID, m.Name, m.CurrencyCode, m.CreatedAt, m.LastUpdatedAt); err != nil {
		return fmt.Errorf("failed to save budget %s: %w", m.BudgetID, mapError(err))
	}
	return nil
}

// FindBudgetByID retrieves a budget by its ID.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1;`
	var m models.Budget
	err := r.db(ctx).QueryRow(ctx, query, budgetID).Scan(&m.BudgetID, &m.Name, &m.CurrencyCode, &m.CreatedAt, &m.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, budgetID)
		}
		return nil, fmt.Errorf("failed to find budget by ID %s: %w", budgetID, err)
	}
	b := mapping.ToDomainBudget(m)
	return &b, nil
}

// ListBudgets retrieves all budgets.
func (r *PgxBudgetRepository) ListBudgets(ctx context.Context) ([]domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets ORDER BY name, budget_id;`
	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []domain.Budget{}
	for rows.Next() {
		var m models.Budget
		if err := rows.Scan(&m.BudgetID, &m.Name, &m.CurrencyCode, &m.CreatedAt, &m.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		budgets = append(budgets, mapping.ToDomainBudget(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget rows: %w", err)
	}
	return budgets, nil
}

// DeleteBudget deletes a budget. Payees and categories go with it through ON DELETE CASCADE.
func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	cmdTag, err := r.db(ctx).Exec(ctx, `DELETE FROM budgets WHERE budget_id = $1;`, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, mapError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: budget %s", apperrors.ErrNotFound, budgetID)
	}
	return nil
}
