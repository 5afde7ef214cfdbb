package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_ledger/internal/core/ports/services"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/google/uuid"
)

type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
	budgetRepo   portsrepo.BudgetReader
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade, budgetRepo portsrepo.BudgetReader) portssvc.CategorySvcFacade {
	return &categoryService{
		categoryRepo: categoryRepo,
		budgetRepo:   budgetRepo,
	}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategoryGroup(ctx context.Context, req dto.CreateCategoryGroupRequest) (*domain.CategoryGroup, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if strings.EqualFold(name, domain.CreditCardGroupName) {
		return nil, fmt.Errorf("%w: %q is a reserved group name", apperrors.ErrValidation, domain.CreditCardGroupName)
	}
	if _, err := s.budgetRepo.FindBudgetByID(ctx, req.BudgetID); err != nil {
		return nil, err
	}

	ts := now()
	group := domain.CategoryGroup{
		CategoryGroupID: uuid.NewString(),
		BudgetID:        req.BudgetID,
		Name:            name,
		AuditFields:     domain.AuditFields{CreatedAt: ts, LastUpdatedAt: ts},
	}
	if err := s.categoryRepo.SaveCategoryGroup(ctx, group); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Category group created", slog.String("category_group_id", group.CategoryGroupID))
	return &group, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	group, err := s.categoryRepo.FindCategoryGroupByID(ctx, req.CategoryGroupID)
	if err != nil {
		return nil, err
	}
	if group.Locked {
		return nil, fmt.Errorf("%w: category group %s is managed by the ledger", apperrors.ErrValidation, group.CategoryGroupID)
	}

	ts := now()
	category := domain.Category{
		CategoryID:      uuid.NewString(),
		BudgetID:        group.BudgetID,
		CategoryGroupID: group.CategoryGroupID,
		Name:            strings.TrimSpace(req.Name),
		AuditFields:     domain.AuditFields{CreatedAt: ts, LastUpdatedAt: ts},
	}
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Category created", slog.String("category_id", category.CategoryID))
	return &category, nil
}

func (s *categoryService) ListCategoryGroups(ctx context.Context, budgetID string) ([]domain.CategoryGroup, error) {
	if _, err := s.budgetRepo.FindBudgetByID(ctx, budgetID); err != nil {
		return nil, err
	}
	groups, err := s.categoryRepo.ListCategoryGroups(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category groups: %w", err)
	}
	if groups == nil {
		return []domain.CategoryGroup{}, nil
	}
	return groups, nil
}

func (s *categoryService) ListCategories(ctx context.Context, budgetID string) ([]domain.Category, error) {
	if _, err := s.budgetRepo.FindBudgetByID(ctx, budgetID); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListCategories(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	return s.categoryRepo.FindCategoryByID(ctx, categoryID)
}
