package domain

import (
	"fmt"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
)

// contribution splits a transaction amount into its cleared and uncleared parts.
// Uncleared transactions count toward uncleared; cleared and reconciled ones toward cleared.
func contribution(amount Money, status TransactionStatus) (cleared, uncleared Money, err error) {
	if !status.Valid() {
		return Money{}, Money{}, fmt.Errorf("%w: unknown transaction status %q", apperrors.ErrValidation, status)
	}
	zero := Zero(amount.Currency())
	if status.IsCleared() {
		return amount, zero, nil
	}
	return zero, amount, nil
}

// Apply adds a transaction's contribution to the account.
// The account is left untouched when an error is returned.
func (a *Account) Apply(amount Money, status TransactionStatus) error {
	return a.shift(amount, status)
}

// Reverse removes a previously applied contribution from the account.
func (a *Account) Reverse(amount Money, status TransactionStatus) error {
	return a.shift(amount.Neg(), status)
}

func (a *Account) shift(amount Money, status TransactionStatus) error {
	if amount.Currency() != a.CurrencyCode {
		return fmt.Errorf("%w: %s amount on %s account %s", apperrors.ErrCurrencyMismatch, amount.Currency(), a.CurrencyCode, a.AccountID)
	}
	dc, du, err := contribution(amount, status)
	if err != nil {
		return err
	}
	next := *a
	if next.Cleared, err = a.Cleared.Add(dc); err != nil {
		return err
	}
	if next.Uncleared, err = a.Uncleared.Add(du); err != nil {
		return err
	}
	if err := next.recalculate(); err != nil {
		return err
	}
	*a = next
	return nil
}

// recalculate sets Balance from Cleared and Uncleared.
func (a *Account) recalculate() error {
	balance, err := a.Cleared.Add(a.Uncleared)
	if err != nil {
		return fmt.Errorf("%w: account %s: %v", apperrors.ErrInvalidState, a.AccountID, err)
	}
	a.Balance = balance
	return nil
}

// CheckBalance verifies balance == cleared + uncleared in the account's currency.
func (a Account) CheckBalance() error {
	for _, m := range []Money{a.Balance, a.Cleared, a.Uncleared} {
		if m.Currency() != a.CurrencyCode {
			return fmt.Errorf("%w: account %s holds %s amounts in a %s account", apperrors.ErrInvalidState, a.AccountID, m.Currency(), a.CurrencyCode)
		}
	}
	sum, err := a.Cleared.Add(a.Uncleared)
	if err != nil {
		return fmt.Errorf("%w: account %s: %v", apperrors.ErrInvalidState, a.AccountID, err)
	}
	if !sum.Equal(a.Balance) {
		return fmt.Errorf("%w: account %s balance %d != cleared %d + uncleared %d",
			apperrors.ErrInvalidState, a.AccountID, a.Balance.Amount(), a.Cleared.Amount(), a.Uncleared.Amount())
	}
	return nil
}

// RecomputeBalances derives an account's balances from its full transaction set.
// Transactions that belong to other accounts are rejected.
func RecomputeBalances(account Account, transactions []Transaction) (Account, error) {
	out := account
	out.Cleared = Zero(account.CurrencyCode)
	out.Uncleared = Zero(account.CurrencyCode)
	out.Balance = Zero(account.CurrencyCode)
	for _, txn := range transactions {
		if txn.AccountID != account.AccountID {
			return Account{}, fmt.Errorf("%w: transaction %s belongs to account %s, not %s",
				apperrors.ErrInvalidState, txn.TransactionID, txn.AccountID, account.AccountID)
		}
		if err := out.Apply(txn.Amount, txn.Status); err != nil {
			return Account{}, err
		}
	}
	return out, nil
}

// BalancesFromTotals builds the recomputed balances from per-status sums.
func BalancesFromTotals(account Account, cleared, uncleared int64) (Account, error) {
	out := account
	out.Cleared = NewMoney(cleared, account.CurrencyCode)
	out.Uncleared = NewMoney(uncleared, account.CurrencyCode)
	if err := out.recalculate(); err != nil {
		return Account{}, err
	}
	return out, nil
}

// SameBalances reports whether two snapshots of an account carry identical balances.
func SameBalances(a, b Account) bool {
	return a.Balance.Equal(b.Balance) && a.Cleared.Equal(b.Cleared) && a.Uncleared.Equal(b.Uncleared)
}
