package dto

import (
	"testing"
	"time"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-03-01T23:30:00-02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), d, "timestamps are reduced to their UTC date")

	_, err = ParseDate("03/01/2024")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidate_UsesBindingTags(t *testing.T) {
	err := Validate(CreateAccountRequest{BudgetID: "b", Name: "Checking", AccountType: "SAVINGS"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = Validate(CreateAccountRequest{BudgetID: "b", Name: "Checking", AccountType: "BANK"})
	assert.NoError(t, err)

	err = Validate(PostTransactionRequest{AccountID: "a", PayeeID: "p", Date: "2024-01-01", Status: "PENDING"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = Validate(PostTransactionRequest{AccountID: "a", PayeeID: "p", Date: "2024-01-01"})
	assert.NoError(t, err, "zero amount and empty status are allowed")
}
