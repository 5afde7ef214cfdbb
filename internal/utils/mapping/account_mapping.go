package mapping

import (
	"fmt"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
// It refuses accounts whose balances violate balance == cleared + uncleared,
// so an inconsistent account can never reach storage.
func ToModelAccount(d domain.Account) (models.Account, error) {
	if err := d.CheckBalance(); err != nil {
		return models.Account{}, err
	}
	return models.Account{
		AccountID:       d.AccountID,
		BudgetID:        d.BudgetID,
		Name:            d.Name,
		AccountType:     models.AccountType(d.AccountType),
		CurrencyCode:    d.CurrencyCode,
		TransferPayeeID: toNullString(d.TransferPayeeID),
		Balance:         d.Balance.Amount(),
		Cleared:         d.Cleared.Amount(),
		Uncleared:       d.Uncleared.Amount(),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainAccount converts a model Account to a domain Account.
// A stored row that breaks the balance invariant is reported as ErrInvalidState.
func ToDomainAccount(m models.Account) (domain.Account, error) {
	d := domain.Account{
		AccountID:       m.AccountID,
		BudgetID:        m.BudgetID,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		CurrencyCode:    m.CurrencyCode,
		TransferPayeeID: fromNullString(m.TransferPayeeID),
		Balance:         domain.NewMoney(m.Balance, m.CurrencyCode),
		Cleared:         domain.NewMoney(m.Cleared, m.CurrencyCode),
		Uncleared:       domain.NewMoney(m.Uncleared, m.CurrencyCode),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	if err := d.CheckBalance(); err != nil {
		return domain.Account{}, fmt.Errorf("stored account %s: %w", m.AccountID, err)
	}
	return d, nil
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) ([]domain.Account, error) {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		d, err := ToDomainAccount(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
