package repositories

import (
	"context"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
)

// CategoryReader defines read operations for category groups and categories
type CategoryReader interface {
	FindCategoryGroupByID(ctx context.Context, groupID string) (*domain.CategoryGroup, error)

	// FindCategoryGroupByName looks a group up by its unique (budget, name) key.
	FindCategoryGroupByName(ctx context.Context, budgetID, name string) (*domain.CategoryGroup, error)

	ListCategoryGroups(ctx context.Context, budgetID string) ([]domain.CategoryGroup, error)

	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// FindCategoryByTrackingAccount returns the payment tracking category of a credit card account.
	FindCategoryByTrackingAccount(ctx context.Context, accountID string) (*domain.Category, error)

	ListCategories(ctx context.Context, budgetID string) ([]domain.Category, error)
}

// CategoryWriter defines write operations for category groups and categories
type CategoryWriter interface {
	// SaveCategoryGroup persists a new group. A (budget, name) clash yields ErrDuplicate.
	SaveCategoryGroup(ctx context.Context, group domain.CategoryGroup) error

	// SaveCategory persists a new category. A second category tracking the same
	// account yields ErrDuplicate.
	SaveCategory(ctx context.Context, category domain.Category) error

	DeleteCategory(ctx context.Context, categoryID string) error
}

// CategoryRepositoryFacade combines all category-related repository interfaces
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
