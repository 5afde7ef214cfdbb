package dto

import "github.com/SscSPs/budget_ledger/internal/core/domain"

// CreateBudgetRequest defines the data needed to create a new budget.
type CreateBudgetRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID      string `json:"budgetID"`
	Name          string `json:"name"`
	CurrencyCode  string `json:"currencyCode"`
	CreatedAt     string `json:"createdAt"`
	LastUpdatedAt string `json:"lastUpdatedAt"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:      b.BudgetID,
		Name:          b.Name,
		CurrencyCode:  b.CurrencyCode,
		CreatedAt:     FormatTimestamp(b.CreatedAt),
		LastUpdatedAt: FormatTimestamp(b.LastUpdatedAt),
	}
}

// ToListBudgetResponse converts a slice of domain.Budget to a slice of BudgetResponse DTOs
func ToListBudgetResponse(budgets []domain.Budget) []BudgetResponse {
	res := make([]BudgetResponse, len(budgets))
	for i := range budgets {
		res[i] = ToBudgetResponse(&budgets[i])
	}
	return res
}
