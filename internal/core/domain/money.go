package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Money is an exact amount in minor currency units (cents for USD).
// It is an immutable value: every operation returns a new Money.
type Money struct {
	amount   int64
	currency string
}

// NewMoney creates a Money of amount minor units in the given currency.
func NewMoney(amount int64, currency string) Money {
	return Money{amount: amount, currency: strings.ToUpper(currency)}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return NewMoney(0, currency)
}

// ValidateCurrency checks that code is an ISO 4217 currency known to go-money.
func ValidateCurrency(code string) error {
	if code == "" || money.GetCurrency(strings.ToUpper(code)) == nil {
		return fmt.Errorf("%w: unknown currency code %q", apperrors.ErrValidation, code)
	}
	return nil
}

// ParseMoney parses a major-unit decimal string such as "-12.34" into Money.
// Amounts with more fraction digits than the currency allows are rejected.
func ParseMoney(s string, currency string) (Money, error) {
	if err := ValidateCurrency(currency); err != nil {
		return Money{}, err
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, s)
	}
	cur := money.GetCurrency(strings.ToUpper(currency))
	minor := d.Shift(int32(cur.Fraction))
	if !minor.IsInteger() {
		return Money{}, fmt.Errorf("%w: amount %q has more than %d fraction digits for %s", apperrors.ErrValidation, s, cur.Fraction, cur.Code)
	}
	if minor.GreaterThan(decimal.NewFromInt(maxInt64)) || minor.LessThan(decimal.NewFromInt(minInt64)) {
		return Money{}, fmt.Errorf("%w: amount %q out of range", apperrors.ErrValidation, s)
	}
	return NewMoney(minor.IntPart(), cur.Code), nil
}

const (
	maxInt64 = int64(^uint64(0) >> 1)
	minInt64 = -maxInt64 - 1
)

func (m Money) Amount() int64    { return m.amount }
func (m Money) Currency() string { return m.currency }
func (m Money) IsZero() bool     { return m.amount == 0 }
func (m Money) IsNegative() bool { return m.amount < 0 }
func (m Money) IsPositive() bool { return m.amount > 0 }

// Neg returns the amount with the opposite sign.
func (m Money) Neg() Money { return Money{amount: -m.amount, currency: m.currency} }

// Equal reports structural equality: same amount and same currency.
func (m Money) Equal(n Money) bool { return m.amount == n.amount && m.currency == n.currency }

// Add returns m + n. It fails with ErrCurrencyMismatch when currencies differ.
func (m Money) Add(n Money) (Money, error) {
	sum, err := m.gomoney().Add(n.gomoney())
	if err != nil {
		return Money{}, m.wrap("add", n, err)
	}
	if (n.amount > 0 && sum.Amount() < m.amount) || (n.amount < 0 && sum.Amount() > m.amount) {
		return Money{}, fmt.Errorf("%w: %d + %d overflows", apperrors.ErrValidation, m.amount, n.amount)
	}
	return Money{amount: sum.Amount(), currency: m.currency}, nil
}

// Sub returns m - n. It fails with ErrCurrencyMismatch when currencies differ.
func (m Money) Sub(n Money) (Money, error) {
	diff, err := m.gomoney().Subtract(n.gomoney())
	if err != nil {
		return Money{}, m.wrap("subtract", n, err)
	}
	if (n.amount < 0 && diff.Amount() < m.amount) || (n.amount > 0 && diff.Amount() > m.amount) {
		return Money{}, fmt.Errorf("%w: %d - %d overflows", apperrors.ErrValidation, m.amount, n.amount)
	}
	return Money{amount: diff.Amount(), currency: m.currency}, nil
}

// String formats the amount with the currency's symbol and fraction digits, e.g. "$12.34".
func (m Money) String() string {
	return m.gomoney().Display()
}

func (m Money) gomoney() *money.Money {
	return money.New(m.amount, m.currency)
}

func (m Money) wrap(op string, n Money, err error) error {
	if errors.Is(err, money.ErrCurrencyMismatch) {
		return fmt.Errorf("%w: cannot %s %s and %s", apperrors.ErrCurrencyMismatch, op, m.currency, n.currency)
	}
	return err
}

type moneyJSON struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// MarshalJSON serializes Money as {"amount": <minor units>, "currency": "<code>"}.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount, Currency: m.currency})
}

// UnmarshalJSON parses the {"amount", "currency"} form.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = NewMoney(v.Amount, v.Currency)
	return nil
}
