package mapping

import (
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:         d.TransactionID,
		AccountID:             d.AccountID,
		PayeeID:               d.PayeeID,
		Amount:                d.Amount.Amount(),
		CurrencyCode:          d.Amount.Currency(),
		Date:                  d.Date,
		Memo:                  d.Memo,
		CategoryID:            toNullString(d.CategoryID),
		Status:                models.TransactionStatus(d.Status),
		TransferTransactionID: toNullString(d.TransferTransactionID),
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:         m.TransactionID,
		AccountID:             m.AccountID,
		PayeeID:               m.PayeeID,
		Amount:                domain.NewMoney(m.Amount, m.CurrencyCode),
		Date:                  m.Date,
		Memo:                  m.Memo,
		CategoryID:            fromNullString(m.CategoryID),
		Status:                domain.TransactionStatus(m.Status),
		TransferTransactionID: fromNullString(m.TransferTransactionID),
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}
