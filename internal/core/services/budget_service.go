package services

import (
	"context"
	"errors"
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

type budgetService struct {
	BaseService
	budgetRepo  portsrepo.BudgetRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewBudgetService creates a new budget service.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo:  budgetRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest) (*domain.Budget, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(req.CurrencyCode); err != nil {
		return nil, err
	}

	ts := now()
	budget := domain.Budget{
		BudgetID:     uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		AuditFields:  domain.AuditFields{CreatedAt: ts, LastUpdatedAt: ts},
	}
	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		s.LogError(ctx, err, "Failed to save budget", slog.String("budget_id", budget.BudgetID))
		return nil, err
	}

	s.LogInfo(ctx, "Budget created", slog.String("budget_id", budget.BudgetID))
	return &budget, nil
}

func (s *budgetService) GetBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find budget", slog.String("budget_id", budgetID))
		}
		return nil, err
	}
	return budget, nil
}

func (s *budgetService) ListBudgets(ctx context.Context) ([]domain.Budget, error) {
	budgets, err := s.budgetRepo.ListBudgets(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets")
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	if budgets == nil {
		return []domain.Budget{}, nil
	}
	return budgets, nil
}

// DeleteBudget removes a budget that owns no accounts. The storage layer
// removes its remaining payees, category groups and categories.
func (s *budgetService) DeleteBudget(ctx context.Context, budgetID string) error {
	if _, err := s.budgetRepo.FindBudgetByID(ctx, budgetID); err != nil {
		return err
	}
	n, err := s.accountRepo.CountAccountsByBudget(ctx, budgetID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: budget %s still owns %d accounts", apperrors.ErrValidation, budgetID, n)
	}
	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		s.LogError(ctx, err, "Failed to delete budget", slog.String("budget_id", budgetID))
		return err
	}
	s.LogInfo(ctx, "Budget deleted", slog.String("budget_id", budgetID))
	return nil
}
