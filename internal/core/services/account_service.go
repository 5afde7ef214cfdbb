package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_ledger/internal/core/ports/services"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	txManager       portsrepo.TransactionManager
	accountRepo     portsrepo.AccountRepositoryFacade
	budgetRepo      portsrepo.BudgetReader
	categoryRepo    portsrepo.CategoryRepositoryFacade
	payeeRepo       portsrepo.PayeeRepositoryFacade
	transactionRepo portsrepo.TransactionReader
	cascade         *cascade
}

// NewAccountService creates a new account service over the given repositories.
func NewAccountService(repos portsrepo.RepositoryProvider) portssvc.AccountSvcFacade {
	return &accountService{
		txManager:       repos.TxManager,
		accountRepo:     repos.AccountRepo,
		budgetRepo:      repos.BudgetRepo,
		categoryRepo:    repos.CategoryRepo,
		payeeRepo:       repos.PayeeRepo,
		transactionRepo: repos.TransactionRepo,
		cascade: &cascade{
			txManager:    repos.TxManager,
			accountRepo:  repos.AccountRepo,
			categoryRepo: repos.CategoryRepo,
			payeeRepo:    repos.PayeeRepo,
		},
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	budget, err := s.budgetRepo.FindBudgetByID(ctx, req.BudgetID)
	if err != nil {
		return nil, err
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = budget.CurrencyCode
	}

	ts := now()
	account := domain.NewAccount(uuid.NewString(), budget.BudgetID, strings.TrimSpace(req.Name), req.AccountType, currency)
	account.CreatedAt = ts
	account.LastUpdatedAt = ts
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		return nil, err
	}
	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("account_type", string(account.AccountType)))

	if err := s.cascade.run(ctx, account); err != nil {
		s.LogError(ctx, err, "Account creation cascade failed", slog.String("account_id", account.AccountID))
		return &account, fmt.Errorf("%w: account %s: %w", apperrors.ErrCascadeIncomplete, account.AccountID, err)
	}
	return s.accountRepo.FindAccountByID(ctx, account.AccountID)
}

func (s *accountService) EnsureCascadeComplete(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := s.cascade.run(ctx, *account); err != nil {
		s.LogError(ctx, err, "Account creation cascade repair failed", slog.String("account_id", accountID))
		return account, fmt.Errorf("%w: account %s: %w", apperrors.ErrCascadeIncomplete, accountID, err)
	}
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, budgetID string) ([]domain.Account, error) {
	if _, err := s.budgetRepo.FindBudgetByID(ctx, budgetID); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccountsByBudget(ctx, budgetID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("budget_id", budgetID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// VerifyAccountBalance recomputes balances from the stored transactions while
// holding the account lock. Drift is reported, never repaired.
func (s *accountService) VerifyAccountBalance(ctx context.Context, accountID string) (*domain.Account, error) {
	var verified domain.Account
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, []string{accountID})
		if err != nil {
			return err
		}
		stored := locked[accountID]

		totals, err := s.transactionRepo.SumTransactionsByStatus(ctx, accountID)
		if err != nil {
			return err
		}
		recomputed, err := domain.BalancesFromTotals(stored, totals.Cleared, totals.Uncleared)
		if err != nil {
			return err
		}
		if !domain.SameBalances(stored, recomputed) {
			return fmt.Errorf("%w: account %s stores balance %d (cleared %d, uncleared %d) but its transactions sum to %d (cleared %d, uncleared %d)",
				apperrors.ErrInvalidState, accountID,
				stored.Balance.Amount(), stored.Cleared.Amount(), stored.Uncleared.Amount(),
				recomputed.Balance.Amount(), recomputed.Cleared.Amount(), recomputed.Uncleared.Amount())
		}
		verified = stored
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			s.LogError(ctx, err, "Account balance drift detected", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return &verified, nil
}

// DeleteAccount removes an account nothing references any more, together with
// the transfer payee and tracking category its cascade created.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, []string{accountID})
		if err != nil {
			return err
		}
		account := locked[accountID]

		var payeeID, categoryID string
		payee, err := s.payeeRepo.FindPayeeByTransferAccount(ctx, accountID)
		switch {
		case err == nil:
			payeeID = payee.PayeeID
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}
		if account.IsCreditCard() {
			category, err := s.categoryRepo.FindCategoryByTrackingAccount(ctx, accountID)
			switch {
			case err == nil:
				categoryID = category.CategoryID
			case !errors.Is(err, apperrors.ErrNotFound):
				return err
			}
		}

		n, err := s.transactionRepo.CountTransactionsReferencing(ctx, accountID, payeeID, categoryID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: account %s is referenced by %d transactions", apperrors.ErrValidation, accountID, n)
		}

		if categoryID != "" {
			if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
				return err
			}
		}
		if payeeID != "" {
			if err := s.payeeRepo.DeletePayee(ctx, payeeID); err != nil {
				return err
			}
		}
		return s.accountRepo.DeleteAccount(ctx, accountID)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		}
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
