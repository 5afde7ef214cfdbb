package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_ledger/internal/core/ports/services"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/google/uuid"
)

const defaultPageSize = 50

// transactionService posts, edits and removes transactions. Every mutation runs in one
// storage transaction that locks the affected accounts in ascending ID order, so the
// balance read-modify-write of an account never interleaves with another.
type transactionService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	accountRepo     portsrepo.AccountRepositoryFacade
	payeeRepo       portsrepo.PayeeReader
	categoryRepo    portsrepo.CategoryReader
	transactionRepo portsrepo.TransactionRepositoryFacade
}

// NewTransactionService creates a new transaction service over the given repositories.
func NewTransactionService(repos portsrepo.RepositoryProvider) portssvc.TransactionSvcFacade {
	return &transactionService{
		txManager:       repos.TxManager,
		accountRepo:     repos.AccountRepo,
		payeeRepo:       repos.PayeeRepo,
		categoryRepo:    repos.CategoryRepo,
		transactionRepo: repos.TransactionRepo,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) PostTransaction(ctx context.Context, req dto.PostTransactionRequest) (*domain.Transaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = domain.Uncleared
	}

	ts := now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     req.AccountID,
		PayeeID:       req.PayeeID,
		Date:          date,
		Memo:          req.Memo,
		CategoryID:    req.CategoryID,
		Status:        status,
		AuditFields:   domain.AuditFields{CreatedAt: ts, LastUpdatedAt: ts},
	}

	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.accountRepo.FindAccountByID(ctx, txn.AccountID); err != nil {
			return err
		}
		payee, err := s.payeeRepo.FindPayeeByID(ctx, txn.PayeeID)
		if err != nil {
			return err
		}
		accounts, err := s.lockAccounts(ctx, txn.AccountID, payee.TransferAccountID)
		if err != nil {
			return err
		}
		account := accounts[txn.AccountID]

		currency := req.CurrencyCode
		if currency == "" {
			currency = account.CurrencyCode
		}
		txn.Amount = domain.NewMoney(req.Amount, currency)

		if err := s.validate(ctx, txn, account, payee); err != nil {
			return err
		}
		if err := account.Apply(txn.Amount, txn.Status); err != nil {
			return err
		}
		accounts[account.AccountID] = account
		if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
			return err
		}

		if payee.IsTransfer() {
			if err := s.createCounterpart(ctx, &txn, accounts, payee.TransferAccountID, ts); err != nil {
				return fmt.Errorf("%w: %w", apperrors.ErrPartialTransferFailure, err)
			}
		}
		return s.accountRepo.UpdateAccountBalances(ctx, values(accounts), ts)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to post transaction", slog.String("account_id", txn.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", txn.AccountID),
		slog.Bool("transfer", txn.IsTransfer()))
	return &txn, nil
}

// UpdateTransaction reverses the old contribution of the transaction (and of its
// transfer counterpart) and applies the new one. Depending on the new payee the
// counterpart is kept in step, moved to another account, created or removed.
func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var updated domain.Transaction
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		old, oldMirror, err := s.loadSides(ctx, transactionID)
		if err != nil {
			return err
		}
		next, err := patchTransaction(*old, req)
		if err != nil {
			return err
		}
		if _, err := s.accountRepo.FindAccountByID(ctx, next.AccountID); err != nil {
			return err
		}
		payee, err := s.payeeRepo.FindPayeeByID(ctx, next.PayeeID)
		if err != nil {
			return err
		}

		lockIDs := []string{old.AccountID, next.AccountID, payee.TransferAccountID}
		if oldMirror != nil {
			lockIDs = append(lockIDs, oldMirror.AccountID)
		}
		accounts, err := s.lockAccounts(ctx, lockIDs...)
		if err != nil {
			return err
		}
		// The rows were read before the locks were taken.
		old, oldMirror, err = s.checkUnchanged(ctx, old, oldMirror)
		if err != nil {
			return err
		}
		next, err = patchTransaction(*old, req)
		if err != nil {
			return err
		}
		if next.PayeeID != payee.PayeeID {
			if payee, err = s.payeeRepo.FindPayeeByID(ctx, next.PayeeID); err != nil {
				return err
			}
			if _, locked := accounts[payee.TransferAccountID]; payee.IsTransfer() && !locked {
				return fmt.Errorf("%w: transaction %s", apperrors.ErrConflict, transactionID)
			}
		}

		if err := reverseInto(accounts, *old); err != nil {
			return err
		}
		if oldMirror != nil {
			if err := reverseInto(accounts, *oldMirror); err != nil {
				return err
			}
		}

		account := accounts[next.AccountID]
		ts := now()
		next.LastUpdatedAt = ts

		if err := s.validate(ctx, next, account, payee); err != nil {
			return err
		}
		if err := applyInto(accounts, next); err != nil {
			return err
		}

		if err := s.syncCounterpart(ctx, &next, oldMirror, payee, accounts, ts); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrPartialTransferFailure, err)
		}
		if err := s.transactionRepo.UpdateTransaction(ctx, next); err != nil {
			return err
		}
		if oldMirror != nil && next.TransferTransactionID != oldMirror.TransactionID {
			if err := s.transactionRepo.DeleteTransaction(ctx, oldMirror.TransactionID); err != nil {
				return fmt.Errorf("%w: %w", apperrors.ErrPartialTransferFailure, err)
			}
		}
		if err := s.accountRepo.UpdateAccountBalances(ctx, values(accounts), ts); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	return &updated, nil
}

// DeleteTransaction reverses and removes a transaction together with its transfer counterpart.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		txn, mirror, err := s.loadSides(ctx, transactionID)
		if err != nil {
			return err
		}
		lockIDs := []string{txn.AccountID}
		if mirror != nil {
			lockIDs = append(lockIDs, mirror.AccountID)
		}
		accounts, err := s.lockAccounts(ctx, lockIDs...)
		if err != nil {
			return err
		}
		txn, mirror, err = s.checkUnchanged(ctx, txn, mirror)
		if err != nil {
			return err
		}

		if err := reverseInto(accounts, *txn); err != nil {
			return err
		}
		if mirror != nil {
			if err := reverseInto(accounts, *mirror); err != nil {
				return err
			}
			if err := s.transactionRepo.DeleteTransaction(ctx, mirror.TransactionID); err != nil {
				return fmt.Errorf("%w: %w", apperrors.ErrPartialTransferFailure, err)
			}
		}
		if err := s.transactionRepo.DeleteTransaction(ctx, txn.TransactionID); err != nil {
			return err
		}
		return s.accountRepo.UpdateAccountBalances(ctx, values(accounts), now())
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return err
	}
	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	if params.Limit == 0 {
		params.Limit = defaultPageSize
	}
	if err := dto.Validate(params); err != nil {
		return nil, nil, err
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, nil, err
	}
	txns, next, err := s.transactionRepo.ListTransactionsByAccount(ctx, accountID, params.Limit, params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		}
		return nil, nil, err
	}
	return txns, next, nil
}

// validate checks a transaction against its (locked) account, its payee and its category.
func (s *transactionService) validate(ctx context.Context, txn domain.Transaction, account domain.Account, payee *domain.Payee) error {
	if err := txn.Validate(); err != nil {
		return err
	}
	if txn.Amount.Currency() != account.CurrencyCode {
		return fmt.Errorf("%w: %s transaction on %s account %s",
			apperrors.ErrCurrencyMismatch, txn.Amount.Currency(), account.CurrencyCode, account.AccountID)
	}
	if payee.BudgetID != account.BudgetID {
		return fmt.Errorf("%w: payee %s belongs to another budget than account %s",
			apperrors.ErrValidation, payee.PayeeID, account.AccountID)
	}
	if payee.TransferAccountID == account.AccountID {
		return fmt.Errorf("%w: account %s cannot transfer to itself", apperrors.ErrValidation, account.AccountID)
	}
	if txn.CategoryID == "" {
		return nil
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, txn.CategoryID)
	if err != nil {
		return err
	}
	if category.BudgetID != account.BudgetID {
		return fmt.Errorf("%w: category %s belongs to another budget than account %s",
			apperrors.ErrValidation, category.CategoryID, account.AccountID)
	}
	return nil
}

// counterpartOf builds the other side of a transfer posted on source.
func counterpartOf(txn domain.Transaction, source domain.Account, targetID string) (domain.Transaction, error) {
	if source.TransferPayeeID == "" {
		return domain.Transaction{}, fmt.Errorf("%w: account %s has no transfer payee", apperrors.ErrCascadeIncomplete, source.AccountID)
	}
	return domain.Transaction{
		AccountID:             targetID,
		PayeeID:               source.TransferPayeeID,
		Amount:                txn.Amount.Neg(),
		Date:                  txn.Date,
		Memo:                  txn.Memo,
		Status:                txn.Status,
		TransferTransactionID: txn.TransactionID,
		AuditFields:           txn.AuditFields,
	}, nil
}

// createCounterpart posts a new mirrored transaction on targetID and links both sides.
// txn must already be stored.
func (s *transactionService) createCounterpart(ctx context.Context, txn *domain.Transaction, accounts map[string]domain.Account, targetID string, ts time.Time) error {
	mirror, err := counterpartOf(*txn, accounts[txn.AccountID], targetID)
	if err != nil {
		return err
	}
	mirror.TransactionID = uuid.NewString()
	mirror.CreatedAt = ts
	mirror.LastUpdatedAt = ts
	if err := applyInto(accounts, mirror); err != nil {
		return err
	}
	if err := s.transactionRepo.SaveTransaction(ctx, mirror); err != nil {
		return err
	}
	txn.TransferTransactionID = mirror.TransactionID
	return s.transactionRepo.UpdateTransaction(ctx, *txn)
}

// syncCounterpart brings the counterpart of an edited transaction in line with its new payee.
// It does not store next itself.
func (s *transactionService) syncCounterpart(ctx context.Context, next *domain.Transaction, oldMirror *domain.Transaction, payee *domain.Payee, accounts map[string]domain.Account, ts time.Time) error {
	if !payee.IsTransfer() {
		next.TransferTransactionID = ""
		return nil
	}

	mirror, err := counterpartOf(*next, accounts[next.AccountID], payee.TransferAccountID)
	if err != nil {
		return err
	}
	if oldMirror == nil {
		// The mirror references next, which must exist first; next is stored unlinked
		// here and linked by the caller's final update.
		next.TransferTransactionID = ""
		if err := s.transactionRepo.UpdateTransaction(ctx, *next); err != nil {
			return err
		}
		mirror.TransactionID = uuid.NewString()
		mirror.CreatedAt = ts
		mirror.LastUpdatedAt = ts
		if err := applyInto(accounts, mirror); err != nil {
			return err
		}
		if err := s.transactionRepo.SaveTransaction(ctx, mirror); err != nil {
			return err
		}
		next.TransferTransactionID = mirror.TransactionID
		return nil
	}

	mirror.TransactionID = oldMirror.TransactionID
	mirror.CreatedAt = oldMirror.CreatedAt
	mirror.LastUpdatedAt = ts
	if oldMirror.AccountID == mirror.AccountID {
		mirror.CategoryID = oldMirror.CategoryID
	}
	if err := applyInto(accounts, mirror); err != nil {
		return err
	}
	if err := s.transactionRepo.UpdateTransaction(ctx, mirror); err != nil {
		return err
	}
	next.TransferTransactionID = mirror.TransactionID
	return nil
}

// loadSides reads a transaction and, for a transfer, its counterpart.
func (s *transactionService) loadSides(ctx context.Context, transactionID string) (*domain.Transaction, *domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}
	if !txn.IsTransfer() {
		return txn, nil, nil
	}
	mirror, err := s.transactionRepo.FindTransactionByID(ctx, txn.TransferTransactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: transfer counterpart %s of transaction %s is missing",
				apperrors.ErrInvalidState, txn.TransferTransactionID, transactionID)
		}
		return nil, nil, err
	}
	return txn, mirror, nil
}

// checkUnchanged re-reads the transaction after its accounts were locked and fails
// with ErrConflict if a concurrent edit moved it in the meantime. On success the
// fresh rows are returned.
func (s *transactionService) checkUnchanged(ctx context.Context, txn, mirror *domain.Transaction) (*domain.Transaction, *domain.Transaction, error) {
	current, currentMirror, err := s.loadSides(ctx, txn.TransactionID)
	if err != nil {
		return nil, nil, err
	}
	if current.AccountID != txn.AccountID ||
		current.TransferTransactionID != txn.TransferTransactionID ||
		!current.Amount.Equal(txn.Amount) ||
		current.Status != txn.Status {
		return nil, nil, fmt.Errorf("%w: transaction %s", apperrors.ErrConflict, txn.TransactionID)
	}
	if mirror != nil && currentMirror.AccountID != mirror.AccountID {
		return nil, nil, fmt.Errorf("%w: transaction %s", apperrors.ErrConflict, mirror.TransactionID)
	}
	return current, currentMirror, nil
}

// lockAccounts locks the non-empty account IDs in ascending order.
func (s *transactionService) lockAccounts(ctx context.Context, accountIDs ...string) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return s.accountRepo.FindAccountsByIDsForUpdate(ctx, ids)
}

func (s *transactionService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidState), errors.Is(err, apperrors.ErrPartialTransferFailure):
		s.LogError(ctx, err, msg, keyvals...)
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrCurrencyMismatch):
		s.LogDebug(ctx, msg, append(keyvals, slog.String("error", err.Error()))...)
	default:
		s.LogError(ctx, err, msg, keyvals...)
	}
}

func applyInto(accounts map[string]domain.Account, txn domain.Transaction) error {
	account, ok := accounts[txn.AccountID]
	if !ok {
		return fmt.Errorf("%w: account %s is not locked", apperrors.ErrInvalidState, txn.AccountID)
	}
	if err := account.Apply(txn.Amount, txn.Status); err != nil {
		return err
	}
	accounts[txn.AccountID] = account
	return nil
}

func reverseInto(accounts map[string]domain.Account, txn domain.Transaction) error {
	account, ok := accounts[txn.AccountID]
	if !ok {
		return fmt.Errorf("%w: account %s is not locked", apperrors.ErrInvalidState, txn.AccountID)
	}
	if err := account.Reverse(txn.Amount, txn.Status); err != nil {
		return err
	}
	accounts[txn.AccountID] = account
	return nil
}

// patchTransaction applies the provided fields of req to txn.
func patchTransaction(txn domain.Transaction, req dto.UpdateTransactionRequest) (domain.Transaction, error) {
	if req.AccountID != nil {
		txn.AccountID = *req.AccountID
	}
	if req.PayeeID != nil {
		txn.PayeeID = *req.PayeeID
	}
	amount, currency := txn.Amount.Amount(), txn.Amount.Currency()
	if req.Amount != nil {
		amount = *req.Amount
	}
	if req.CurrencyCode != nil {
		currency = strings.ToUpper(*req.CurrencyCode)
	}
	txn.Amount = domain.NewMoney(amount, currency)
	if req.Date != nil {
		date, err := dto.ParseDate(*req.Date)
		if err != nil {
			return domain.Transaction{}, err
		}
		txn.Date = date
	}
	if req.Memo != nil {
		txn.Memo = *req.Memo
	}
	if req.CategoryID != nil {
		txn.CategoryID = *req.CategoryID
	}
	if req.Status != nil {
		txn.Status = *req.Status
	}
	return txn, nil
}

func values(accounts map[string]domain.Account) []domain.Account {
	out := make([]domain.Account, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, acc)
	}
	return out
}
