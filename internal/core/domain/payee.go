package domain

// TransferPayeePrefix is prepended to an account name to name its transfer payee.
const TransferPayeePrefix = "Transfer : "

// Payee is the counterparty of a transaction. A payee with a TransferAccountID
// stands for "that account" and turns a transaction into a transfer.
type Payee struct {
	PayeeID           string `json:"payeeID"`
	BudgetID          string `json:"budgetID"`
	Name              string `json:"name"`
	TransferAccountID string `json:"transferAccountID"` // Empty for regular payees
	AuditFields
}

// IsTransfer reports whether the payee represents another account.
func (p Payee) IsTransfer() bool {
	return p.TransferAccountID != ""
}

// TransferPayeeName returns the name of the transfer payee for an account.
func TransferPayeeName(accountName string) string {
	return TransferPayeePrefix + accountName
}
