package mapping

import (
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/models"
)

// ToModelPayee converts a domain Payee to a model Payee
func ToModelPayee(d domain.Payee) models.Payee {
	return models.Payee{
		PayeeID:           d.PayeeID,
		BudgetID:          d.BudgetID,
		Name:              d.Name,
		TransferAccountID: toNullString(d.TransferAccountID),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayee converts a model Payee to a domain Payee
func ToDomainPayee(m models.Payee) domain.Payee {
	return domain.Payee{
		PayeeID:           m.PayeeID,
		BudgetID:          m.BudgetID,
		Name:              m.Name,
		TransferAccountID: fromNullString(m.TransferAccountID),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
