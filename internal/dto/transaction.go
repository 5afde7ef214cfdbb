package dto

import (
	"github.com/SscSPs/budget_ledger/internal/core/domain"
)

// PostTransactionRequest defines the data needed to post a transaction.
// Amount is signed minor units: positive for inflows, negative for outflows.
type PostTransactionRequest struct {
	AccountID    string                   `json:"accountID" binding:"required"`
	PayeeID      string                   `json:"payeeID" binding:"required"`
	Amount       int64                    `json:"amount"`
	CurrencyCode string                   `json:"currencyCode" binding:"omitempty,len=3"` // Defaults to the account's currency
	Date         string                   `json:"date" binding:"required"`                // YYYY-MM-DD
	Memo         string                   `json:"memo" binding:"max=500"`
	CategoryID   string                   `json:"categoryID"`
	Status       domain.TransactionStatus `json:"status" binding:"omitempty,oneof=UNCLEARED CLEARED RECONCILED"` // Defaults to UNCLEARED
}

// UpdateTransactionRequest defines the fields that may change on a transaction.
// Use pointers to distinguish between zero-value updates and fields not provided.
// An empty CategoryID clears the category.
type UpdateTransactionRequest struct {
	AccountID    *string                   `json:"accountID"`
	PayeeID      *string                   `json:"payeeID"`
	Amount       *int64                    `json:"amount"`
	CurrencyCode *string                   `json:"currencyCode" binding:"omitempty,len=3"`
	Date         *string                   `json:"date"`
	Memo         *string                   `json:"memo" binding:"omitempty,max=500"`
	CategoryID   *string                   `json:"categoryID"`
	Status       *domain.TransactionStatus `json:"status" binding:"omitempty,oneof=UNCLEARED CLEARED RECONCILED"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID         string                   `json:"transactionID"`
	AccountID             string                   `json:"accountID"`
	PayeeID               string                   `json:"payeeID"`
	Amount                int64                    `json:"amount"`
	CurrencyCode          string                   `json:"currencyCode"`
	Date                  string                   `json:"date"`
	Memo                  string                   `json:"memo"`
	CategoryID            string                   `json:"categoryID,omitempty"`
	Status                domain.TransactionStatus `json:"status"`
	TransferTransactionID string                   `json:"transferTransactionID,omitempty"`
	CreatedAt             string                   `json:"createdAt"`
	LastUpdatedAt         string                   `json:"lastUpdatedAt"`
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken *string `form:"nextToken"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:         txn.TransactionID,
		AccountID:             txn.AccountID,
		PayeeID:               txn.PayeeID,
		Amount:                txn.Amount.Amount(),
		CurrencyCode:          txn.Amount.Currency(),
		Date:                  FormatDate(txn.Date),
		Memo:                  txn.Memo,
		CategoryID:            txn.CategoryID,
		Status:                txn.Status,
		TransferTransactionID: txn.TransferTransactionID,
		CreatedAt:             FormatTimestamp(txn.CreatedAt),
		LastUpdatedAt:         FormatTimestamp(txn.LastUpdatedAt),
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
