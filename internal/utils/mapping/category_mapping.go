package mapping

import (
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/models"
)

// ToModelCategoryGroup converts a domain CategoryGroup to a model CategoryGroup
func ToModelCategoryGroup(d domain.CategoryGroup) models.CategoryGroup {
	return models.CategoryGroup{
		CategoryGroupID: d.CategoryGroupID,
		BudgetID:        d.BudgetID,
		Name:            d.Name,
		Locked:          d.Locked,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategoryGroup converts a model CategoryGroup to a domain CategoryGroup
func ToDomainCategoryGroup(m models.CategoryGroup) domain.CategoryGroup {
	return domain.CategoryGroup{
		CategoryGroupID: m.CategoryGroupID,
		BudgetID:        m.BudgetID,
		Name:            m.Name,
		Locked:          m.Locked,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCategory converts a domain Category to a model Category
func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:        d.CategoryID,
		BudgetID:          d.BudgetID,
		CategoryGroupID:   d.CategoryGroupID,
		TrackingAccountID: toNullString(d.TrackingAccountID),
		Name:              d.Name,
		Locked:            d.Locked,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategory converts a model Category to a domain Category
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:        m.CategoryID,
		BudgetID:          m.BudgetID,
		CategoryGroupID:   m.CategoryGroupID,
		TrackingAccountID: fromNullString(m.TrackingAccountID),
		Name:              m.Name,
		Locked:            m.Locked,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
