package ofx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/budget_ledger/internal/core/ports/services"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/SscSPs/budget_ledger/internal/platform/logging"
)

// Result summarizes an import.
type Result struct {
	Posted  []domain.Transaction
	Skipped int // lines repeating a FITID already seen in the file
}

// Importer posts statement lines as transactions on one account.
type Importer struct {
	accounts     portssvc.AccountReaderSvc
	payees       portssvc.PayeeWriterSvc
	transactions portssvc.TransactionWriterSvc
}

func NewImporter(services *portssvc.ServiceContainer) *Importer {
	return &Importer{
		accounts:     services.Account,
		payees:       services.Payee,
		transactions: services.Transaction,
	}
}

// Import parses r and posts every statement line on accountID with the given status.
// Each line is its own posting; on failure the lines posted so far stay and are
// returned with the error.
func (i *Importer) Import(ctx context.Context, accountID string, r io.Reader, status domain.TransactionStatus) (*Result, error) {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = slog.Default()
	}

	account, err := i.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	statements, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	result := &Result{}
	seen := make(map[string]bool)
	for _, stmt := range statements {
		if domain.ValidateCurrency(stmt.Currency) == nil && stmt.Currency != account.CurrencyCode {
			return result, fmt.Errorf("%w: statement %s is in %s, account %s is in %s",
				apperrors.ErrCurrencyMismatch, stmt.AccountNumber, stmt.Currency, account.AccountID, account.CurrencyCode)
		}
		for _, line := range stmt.Lines {
			if line.FITID != "" && seen[line.FITID] {
				result.Skipped++
				continue
			}
			seen[line.FITID] = true

			txn, err := i.post(ctx, account, line, status)
			if err != nil {
				return result, fmt.Errorf("line %s: %w", line.FITID, err)
			}
			result.Posted = append(result.Posted, *txn)
		}
	}

	logger.Info("Statement imported",
		slog.String("account_id", account.AccountID),
		slog.Int("posted", len(result.Posted)),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

func (i *Importer) post(ctx context.Context, account *domain.Account, line StatementLine, status domain.TransactionStatus) (*domain.Transaction, error) {
	amount, err := domain.ParseMoney(line.Amount, account.CurrencyCode)
	if err != nil {
		return nil, err
	}
	payee, err := i.payees.FindOrCreatePayee(ctx, account.BudgetID, line.Payee)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			// Names such as "Transfer : X" are reserved for transfer payees.
			payee, err = i.payees.FindOrCreatePayee(ctx, account.BudgetID, "Imported: "+line.Payee)
		}
		if err != nil {
			return nil, err
		}
	}
	return i.transactions.PostTransaction(ctx, dto.PostTransactionRequest{
		AccountID: account.AccountID,
		PayeeID:   payee.PayeeID,
		Amount:    amount.Amount(),
		Date:      line.Posted.Format(dto.DateLayout),
		Memo:      line.Memo,
		Status:    status,
	})
}
