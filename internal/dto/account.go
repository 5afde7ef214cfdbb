package dto

import "github.com/SscSPs/budget_ledger/internal/core/domain"

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	BudgetID     string             `json:"budgetID" binding:"required"`
	Name         string             `json:"name" binding:"required,max=255"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=BANK CREDIT_CARD"`
	CurrencyCode string             `json:"currencyCode" binding:"omitempty,len=3"` // Defaults to the budget's currency
}

// AccountResponse defines the data returned for an account.
// Amounts are minor units of CurrencyCode.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	BudgetID        string             `json:"budgetID"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	CurrencyCode    string             `json:"currencyCode"`
	TransferPayeeID string             `json:"transferPayeeID,omitempty"`
	Balance         int64              `json:"balance"`
	Cleared         int64              `json:"cleared"`
	Uncleared       int64              `json:"uncleared"`
	CreatedAt       string             `json:"createdAt"`
	LastUpdatedAt   string             `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		BudgetID:        acc.BudgetID,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		CurrencyCode:    acc.CurrencyCode,
		TransferPayeeID: acc.TransferPayeeID,
		Balance:         acc.Balance.Amount(),
		Cleared:         acc.Cleared.Amount(),
		Uncleared:       acc.Uncleared.Amount(),
		CreatedAt:       FormatTimestamp(acc.CreatedAt),
		LastUpdatedAt:   FormatTimestamp(acc.LastUpdatedAt),
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// VerifyBalanceResponse reports the result of recomputing an account's balances.
type VerifyBalanceResponse struct {
	AccountID  string `json:"accountID"`
	Consistent bool   `json:"consistent"`
	Balance    int64  `json:"balance"`
	Cleared    int64  `json:"cleared"`
	Uncleared  int64  `json:"uncleared"`
}
