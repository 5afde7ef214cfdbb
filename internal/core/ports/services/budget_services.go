package services

import (
	"context"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/dto"
)

// BudgetReaderSvc defines read operations for budget data
type BudgetReaderSvc interface {
	GetBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context) ([]domain.Budget, error)
}

// BudgetWriterSvc defines write operations for budget data
type BudgetWriterSvc interface {
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest) (*domain.Budget, error)

	// DeleteBudget removes an empty budget. It is refused while the budget owns accounts.
	DeleteBudget(ctx context.Context, budgetID string) error
}

// BudgetSvcFacade combines all budget-related service interfaces
type BudgetSvcFacade interface {
	BudgetReaderSvc
	BudgetWriterSvc
}
