package services

import (
	"context"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/dto"
)

// CategoryReaderSvc defines read operations for category groups and categories
type CategoryReaderSvc interface {
	ListCategoryGroups(ctx context.Context, budgetID string) ([]domain.CategoryGroup, error)
	ListCategories(ctx context.Context, budgetID string) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
}

// CategoryWriterSvc defines write operations for category groups and categories
type CategoryWriterSvc interface {
	// CreateCategoryGroup creates a user group. The credit card payments name is reserved.
	CreateCategoryGroup(ctx context.Context, req dto.CreateCategoryGroupRequest) (*domain.CategoryGroup, error)

	// CreateCategory creates a category in an unlocked group.
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error)
}

// CategorySvcFacade combines all category-related service interfaces
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}
