package models

// Budget is the stored form of a budget.
type Budget struct {
	BudgetID     string `db:"budget_id"`
	Name         string `db:"name"`
	CurrencyCode string `db:"currency_code"`
	AuditFields
}
