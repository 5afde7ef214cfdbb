package domain

// Budget groups the accounts, payees and categories of one envelope budget.
type Budget struct {
	BudgetID     string `json:"budgetID"`     // Primary Key (UUID)
	Name         string `json:"name"`         // User-defined name
	CurrencyCode string `json:"currencyCode"` // Default currency for new accounts
	AuditFields
}
