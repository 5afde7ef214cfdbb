package models

import "database/sql"

// CategoryGroup is the stored form of a category group.
type CategoryGroup struct {
	CategoryGroupID string `db:"category_group_id"`
	BudgetID        string `db:"budget_id"`
	Name            string `db:"name"`
	Locked          bool   `db:"locked"`
	AuditFields
}

// Category is the stored form of a category.
type Category struct {
	CategoryID        string         `db:"category_id"`
	BudgetID          string         `db:"budget_id"`
	CategoryGroupID   string         `db:"category_group_id"`
	TrackingAccountID sql.NullString `db:"tracking_account_id"` // Nullable
	Name              string         `db:"name"`
	Locked            bool           `db:"locked"`
	AuditFields
}
