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

type SQLiteCategoryRepository struct {
	BaseRepository
}

var _ portsrepo.CategoryRepositoryFacade = (*SQLiteCategoryRepository)(nil)

const (
	groupColumns    = `category_group_id, budget_id, name, locked, created_at, last_updated_at`
	categoryColumns = `category_id, budget_id, category_group_id, tracking_account_id, name, locked, created_at, last_updated_at`
)

func scanGroup(row scanner) (models.CategoryGroup, error) {
	var m models.CategoryGroup
	err := row.Scan(&m.CategoryGroupID, &m.BudgetID, &m.Name, &m.Locked, &m.CreatedAt, &m.LastUpdatedAt)
	return m, err
}

func scanCategory(row scanner) (models.Category, error) {
	var m models.Category
	err := row.Scan(&m.CategoryID, &m.BudgetID, &m.CategoryGroupID, &m.TrackingAccountID, &m.Name, &m.Locked, &m.CreatedAt, &m.LastUpdatedAt)
	return m, err
}

// SaveCategoryGroup inserts a new category group.
func (r *SQLiteCategoryRepository) SaveCategoryGroup(ctx context.Context, group domain.CategoryGroup) error {
	m := mapping.ToModelCategoryGroup(group)
	_, err := r.db(ctx).ExecContext(ctx, `INSERT INTO category_groups (`+groupColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		m.CategoryGroupID, m.BudgetID, m.Name, m.Locked, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save category group %q: %w", m.Name, mapError(err))
	}
	return nil
}

func (r *SQLiteCategoryRepository) findGroup(ctx context.Context, what, where string, args ...any) (*domain.CategoryGroup, error) {
	m, err := scanGroup(r.db(ctx).QueryRowContext(ctx, `SELECT `+groupColumns+` FROM category_groups WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: category group %s", apperrors.ErrNotFound, what)
		}
		return nil, fmt.Errorf("failed to find category group %s: %w", what, err)
	}
	g := mapping.ToDomainCategoryGroup(m)
	return &g, nil
}

// FindCategoryGroupByID retrieves a category group by its ID.
func (r *SQLiteCategoryRepository) FindCategoryGroupByID(ctx context.Context, groupID string) (*domain.CategoryGroup, error) {
	return r.findGroup(ctx, groupID, `category_group_id = ?`, groupID)
}

// FindCategoryGroupByName retrieves a category group by its (budget, name) key.
func (r *SQLiteCategoryRepository) FindCategoryGroupByName(ctx context.Context, budgetID, name string) (*domain.CategoryGroup, error) {
	return r.findGroup(ctx, fmt.Sprintf("%q", name), `budget_id = ? AND name = ?`, budgetID, name)
}

// ListCategoryGroups retrieves the category groups of a budget.
func (r *SQLiteCategoryRepository) ListCategoryGroups(ctx context.Context, budgetID string) ([]domain.CategoryGroup, error) {
	rows, err := r.db(ctx).QueryContext(ctx, `SELECT `+groupColumns+` FROM category_groups WHERE budget_id = ? ORDER BY name`, budgetID)
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
func (r *SQLiteCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	_, err := r.db(ctx).ExecContext(ctx, `INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.CategoryID, m.BudgetID, m.CategoryGroupID, m.TrackingAccountID, m.Name, m.Locked, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save category %q: %w", m.Name, mapError(err))
	}
	return nil
}

func (r *SQLiteCategoryRepository) findCategory(ctx context.Context, what, where string, args ...any) (*domain.Category, error) {
	m, err := scanCategory(r.db(ctx).QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: category %s", apperrors.ErrNotFound, what)
		}
		return nil, fmt.Errorf("failed to find category %s: %w", what, err)
	}
	c := mapping.ToDomainCategory(m)
	return &c, nil
}

// FindCategoryByID retrieves a category by its ID.
func (r *SQLiteCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	return r.findCategory(ctx, categoryID, `category_id = ?`, categoryID)
}

// FindCategoryByTrackingAccount retrieves the payment category tracking an account.
func (r *SQLiteCategoryRepository) FindCategoryByTrackingAccount(ctx context.Context, accountID string) (*domain.Category, error) {
	return r.findCategory(ctx, "tracking account "+accountID, `tracking_account_id = ?`, accountID)
}

// ListCategories retrieves the categories of a budget.
func (r *SQLiteCategoryRepository) ListCategories(ctx context.Context, budgetID string) ([]domain.Category, error) {
	rows, err := r.db(ctx).QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE budget_id = ? ORDER BY category_group_id, name`, budgetID)
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
func (r *SQLiteCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	res, err := r.db(ctx).ExecContext(ctx, `DELETE FROM categories WHERE category_id = ?`, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, mapError(err))
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
	}
	return nil
}
