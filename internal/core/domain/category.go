package domain

// CreditCardGroupName is the reserved name of the locked group holding
// credit card payment tracking categories.
const CreditCardGroupName = "Credit Card Payments"

// CategoryGroup groups budget categories.
type CategoryGroup struct {
	CategoryGroupID string `json:"categoryGroupID"`
	BudgetID        string `json:"budgetID"`
	Name            string `json:"name"`
	Locked          bool   `json:"locked"` // Locked groups are managed by the ledger, not the user
	AuditFields
}

// Category is a budget envelope.
type Category struct {
	CategoryID        string `json:"categoryID"`
	BudgetID          string `json:"budgetID"`
	CategoryGroupID   string `json:"categoryGroupID"`
	TrackingAccountID string `json:"trackingAccountID"` // Set only on credit card payment categories
	Name              string `json:"name"`
	Locked            bool   `json:"locked"`
	AuditFields
}

// IsTracking reports whether the category tracks payments for a credit card account.
func (c Category) IsTracking() bool {
	return c.TrackingAccountID != ""
}
