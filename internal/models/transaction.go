package models

import (
	"database/sql"
	"time"
)

// TransactionStatus is the stored clearing status.
type TransactionStatus string

// Transaction is the stored form of a transaction. Amount is signed minor units.
type Transaction struct {
	TransactionID         string            `db:"transaction_id"`
	AccountID             string            `db:"account_id"`
	PayeeID               string            `db:"payee_id"`
	Amount                int64             `db:"amount"`
	CurrencyCode          string            `db:"currency_code"`
	Date                  time.Time         `db:"txn_date"`
	Memo                  string            `db:"memo"`
	CategoryID            sql.NullString    `db:"category_id"` // Nullable
	Status                TransactionStatus `db:"status"`
	TransferTransactionID sql.NullString    `db:"transfer_transaction_id"` // Nullable
	AuditFields
}

// StatusTotals holds an account's transaction sums split by clearing state.
type StatusTotals struct {
	Cleared   int64
	Uncleared int64
}
