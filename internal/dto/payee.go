package dto

import "github.com/SscSPs/budget_ledger/internal/core/domain"

// CreatePayeeRequest defines the data needed to create a regular payee.
type CreatePayeeRequest struct {
	BudgetID string `json:"budgetID" binding:"required"`
	Name     string `json:"name" binding:"required,max=255"`
}

// PayeeResponse defines the data returned for a payee.
type PayeeResponse struct {
	PayeeID           string `json:"payeeID"`
	BudgetID          string `json:"budgetID"`
	Name              string `json:"name"`
	TransferAccountID string `json:"transferAccountID,omitempty"`
	CreatedAt         string `json:"createdAt"`
}

// ToPayeeResponse converts a domain.Payee to PayeeResponse DTO
func ToPayeeResponse(p *domain.Payee) PayeeResponse {
	return PayeeResponse{
		PayeeID:           p.PayeeID,
		BudgetID:          p.BudgetID,
		Name:              p.Name,
		TransferAccountID: p.TransferAccountID,
		CreatedAt:         FormatTimestamp(p.CreatedAt),
	}
}

// ToListPayeeResponse converts a slice of domain.Payee to a slice of PayeeResponse DTOs
func ToListPayeeResponse(payees []domain.Payee) []PayeeResponse {
	res := make([]PayeeResponse, len(payees))
	for i := range payees {
		res[i] = ToPayeeResponse(&payees[i])
	}
	return res
}
