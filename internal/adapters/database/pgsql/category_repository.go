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

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const (
	groupColumns    = `category_group_id, budget_id, name, locked, created_at, last_updated_at`
	categoryColumns = `category_id, budget_id, category_group_id, tracking_account_id, name, locked, created_at, last_updated_at`
)

func scanGroup(row pgx.Row) (models.CategoryGroup, error) {
	var m models.CategoryGroup
	err := row.Scan(&m.CategoryGroupID, &m.BudgetID, &m.Name, &m.Locked, &m.CreatedAt, &m.LastUpdatedAt)
	return m, err
}

func scanCategory(row pgx.Row) (models.Category, error) {
	var m models.Category
	err := row.Scan(&m.CategoryID, &m.BudgetID, &m.CategoryGroupID, &m.TrackingAccountID, &m.Name, &m.Locked, &m.CreatedAt, &m.LastUpdatedAt)
	return m, err
}

// SaveCategoryGroup inserts a new category group.
func (r *PgxCategoryRepository) SaveCategoryGroup(ctx context.Context, group domain.CategoryGroup) error {
	m := mapping.ToModelCategoryGroup(group)
	query := `INSERT INTO category_groups (` + groupColumns + `) VALUES ($1, $2, $3, $4, $5, $6);`
	if _, err := r.db(ctx).Exec(ctx, query, m.CategoryGroupID, m.BudgetID, m.Name, m.Locked, m.CreatedAt, m.LastUpdatedAt); err != nil {
		return fmt.Errorf("failed to save category group %q: %w", m.Name, mapError(err))
	}
	return nil
}

func (r *PgxCategoryRepository) findGroup(ctx context.Context, what, where string, args ...any) (*domain.CategoryGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM category_groups WHERE ` + where + `;`
	m, err := scanGroup(r.db(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: category group %s", apperrors.ErrNotFound, what)
		}
		return nil, fmt.Errorf("failed to find category group %s: %w", what, err)
	}
	g := mapping.ToDomainCategoryGroup(m)
	return &g, nil
}

// FindCategoryGroupByID retrieves a category group by its ID.
func (r *PgxCategoryRepository) FindCategoryGroupByID(ctx context.Context, groupID string) (*domain.CategoryGroup, error) {
	return r.findGroup(ctx, groupID, `category_group_id = $1`, groupID)
}

// FindCategoryGroupByName retrieves a category group by its (budget, name) key.
func (r *PgxCategoryRepository) FindCategoryGroupByName(ctx context.Context, budgetID, name string) (*domain.CategoryGroup, error) {
	return r.findGroup(ctx, fmt.Sprintf("%q", name), `budget_id = $1 AND name = $2`, budgetID, name)
}

// ListCategoryGroups retrieves the category groups of a budget.
func (r *PgxCategoryRepository) ListCategoryGroups(ctx context.Context, budgetID string) ([]domain.CategoryGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM category_groups WHERE budget_id = $1 ORDER BY name;`
	rows, err := r.db(ctx).Query(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category groups for budget %s: %w", budgetID, err)
	}
	defer rows.Close()

	groups := []domain.CategoryGroup{}
	for rows.Next() {
		m, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category group row: %w", err)
		}
		groups = append(groups, mapping.ToDomainCategoryGroup(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category group rows: %w", err)
	}
	return groups, nil
}

// SaveCategory inserts a new category.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	_, err := r.db(ctx).Exec(ctx, query,
		m.CategoryID, m.BudgetID, m.CategoryGroupID, m.TrackingAccountID, m.Name, m.Locked, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save category %q: %w", m.Name, mapError(err))
	}
	return nil
}

func (r *PgxCategoryRepository) findCategory(ctx context.Context, what, where string, args ...any) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE ` + where + `;`
	m, err := scanCategory(r.db(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: category %s", apperrors.ErrNotFound, what)
		}
		return nil, fmt.Errorf("failed to find category %s: %w", what, err)
	}
	c := mapping.ToDomainCategory(m)
	return &c, nil
}

// FindCategoryByID retrieves a category by its ID.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	return r.findCategory(ctx, categoryID, `category_id = $1`, categoryID)
}

// FindCategoryByTrackingAccount retrieves the payment category tracking an account.
func (r *PgxCategoryRepository) FindCategoryByTrackingAccount(ctx context.Context, accountID string) (*domain.Category, error) {
	return r.findCategory(ctx, "tracking account "+accountID, `tracking_account_id = $1`, accountID)
}

// ListCategories retrieves the categories of a budget.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context, budgetID string) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE budget_id = $1 ORDER BY category_group_id, name;`
	rows, err := r.db(ctx).Query(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories for budget %s: %w", budgetID, err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		m, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, mapping.ToDomainCategory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}

// DeleteCategory deletes a category.
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	cmdTag, err := r.db(ctx).Exec(ctx, `DELETE FROM categories WHERE category_id = $1;`, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, mapError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
	}
	return nil
}
