package services

import (
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Budget:      NewBudgetService(repos.BudgetRepo, repos.AccountRepo),
		Account:     NewAccountService(repos),
		Category:    NewCategoryService(repos.CategoryRepo, repos.BudgetRepo),
		Payee:       NewPayeeService(repos.PayeeRepo, repos.BudgetRepo),
		Transaction: NewTransactionService(repos),
	}
}
