package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/budget_ledger/internal/core/services"
	"github.com/SscSPs/budget_ledger/internal/dto"
)

// flakyPayeeRepository fails SavePayee while fail is set.
type flakyPayeeRepository struct {
	portsrepo.PayeeRepositoryFacade
	mu   sync.Mutex
	fail bool
}

func (r *flakyPayeeRepository) SavePayee(ctx context.Context, payee domain.Payee) error {
	r.mu.Lock()
	fail := r.fail
	r.mu.Unlock()
	if fail {
		return errors.New("payee store unavailable")
	}
	return r.PayeeRepositoryFacade.SavePayee(ctx, payee)
}

func (r *flakyPayeeRepository) setFail(fail bool) {
	r.mu.Lock()
	r.fail = fail
	r.mu.Unlock()
}

func (s *LedgerSuite) TestCreateAccount_CreatesTransferPayee() {
	b := s.newBudget("Household")
	savings := s.newAccount(b.BudgetID, "Savings", domain.Bank, "")

	s.Equal("USD", savings.CurrencyCode, "currency defaults to the budget's")
	payee, err := s.svc.Payee.GetPayeeByID(s.ctx, savings.TransferPayeeID)
	s.Require().NoError(err)
	s.Equal("Transfer : Savings", payee.Name)
	s.Equal(savings.AccountID, payee.TransferAccountID)
	s.Equal(b.BudgetID, payee.BudgetID)

	categories, err := s.svc.Category.ListCategories(s.ctx, b.BudgetID)
	s.Require().NoError(err)
	s.Empty(categories, "bank accounts get no tracking category")
}

func (s *LedgerSuite) TestCreateAccount_CreditCardCreatesGroupAndTrackingCategory() {
	b := s.newBudget("Household")
	visa := s.newAccount(b.BudgetID, "Visa", domain.CreditCard, "")

	groups, err := s.svc.Category.ListCategoryGroups(s.ctx, b.BudgetID)
	s.Require().NoError(err)
	s.Require().Len(groups, 1)
	s.Equal(domain.CreditCardGroupName, groups[0].Name)
	s.True(groups[0].Locked)

	categories, err := s.svc.Category.ListCategories(s.ctx, b.BudgetID)
	s.Require().NoError(err)
	s.Require().Len(categories, 1)
	s.Equal("Visa", categories[0].Name)
	s.Equal(visa.AccountID, categories[0].TrackingAccountID)
	s.Equal(groups[0].CategoryGroupID, categories[0].CategoryGroupID)
	s.True(categories[0].Locked)
}

func (s *LedgerSuite) TestCreateAccount_ValidationAndNotFound() {
	_, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{BudgetID: "missing", Name: "X", AccountType: domain.Bank})
	s.ErrorIs(err, apperrors.ErrNotFound)

	b := s.newBudget("Household")
	_, err = s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{BudgetID: b.BudgetID, Name: "X", AccountType: "SAVINGS"})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{BudgetID: b.BudgetID, Name: "X", AccountType: domain.Bank, CurrencyCode: "ZZZ"})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerSuite) TestEnsureCascadeComplete_IsIdempotent() {
	b := s.newBudget("Household")
	visa := s.newAccount(b.BudgetID, "Visa", domain.CreditCard, "")

	for i := 0; i < 3; i++ {
		acc, err := s.svc.Account.EnsureCascadeComplete(s.ctx, visa.AccountID)
		s.Require().NoError(err)
		s.Equal(visa.TransferPayeeID, acc.TransferPayeeID)
	}

	payees, err := s.svc.Payee.ListPayees(s.ctx, b.BudgetID)
	s.Require().NoError(err)
	s.Len(payees, 1)
	groups, err := s.svc.Category.ListCategoryGroups(s.ctx, b.BudgetID)
	s.Require().NoError(err)
	s.Len(groups, 1)
	categories, err := s.svc.Category.ListCategories(s.ctx, b.BudgetID)
	s.Require().NoError(err)
	s.Len(categories, 1)
}

func (s *LedgerSuite) TestCreditCardAccounts_ShareOneGroup() {
	b := s.newBudget("Household")
	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
				BudgetID:    b.BudgetID,
				Name:        fmt.Sprintf("Card %d", i),
				AccountType: domain.CreditCard,
			})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		s.Require().NoError(err)
	}

	groups, err := s.svc.Category.ListCategoryGroups(s.ctx, b.BudgetID)
	s.Require().NoError(err)
	s.Len(groups, 1)
	categories, err := s.svc.Category.ListCategories(s.ctx, b.BudgetID)
	s.Require().NoError(err)
	s.Len(categories, n)
	for _, c := range categories {
		s.Equal(groups[0].CategoryGroupID, c.CategoryGroupID)
	}
}

func (s *LedgerSuite) TestCreateAccount_CascadeFailureIsRepairable() {
	b := s.newBudget("Household")
	flaky := &flakyPayeeRepository{PayeeRepositoryFacade: s.repos.PayeeRepo, fail: true}
	repos := s.repos
	repos.PayeeRepo = flaky
	accounts := services.NewAccountService(repos)

	acc, err := accounts.CreateAccount(s.ctx, dto.CreateAccountRequest{BudgetID: b.BudgetID, Name: "Visa", AccountType: domain.CreditCard})
	s.Require().ErrorIs(err, apperrors.ErrCascadeIncomplete)
	s.Require().NotNil(acc, "the persisted account is returned with the error")

	stored := s.account(acc.AccountID)
	s.Empty(stored.TransferPayeeID)
	_, err = s.repos.CategoryRepo.FindCategoryByTrackingAccount(s.ctx, acc.AccountID)
	s.NoError(err, "the independent category step still completed")

	flaky.setFail(false)
	repaired, err := accounts.EnsureCascadeComplete(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.NotEmpty(repaired.TransferPayeeID)

	categories, err := s.svc.Category.ListCategories(s.ctx, b.BudgetID)
	s.Require().NoError(err)
	s.Len(categories, 1, "repair does not duplicate the tracking category")
}

func (s *LedgerSuite) TestCreateAccount_MalformedReservedGroupIsSurfaced() {
	b := s.newBudget("Household")
	s.Require().NoError(s.repos.CategoryRepo.SaveCategoryGroup(s.ctx, domain.CategoryGroup{
		CategoryGroupID: "rogue",
		BudgetID:        b.BudgetID,
		Name:            domain.CreditCardGroupName,
	}))

	acc, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{BudgetID: b.BudgetID, Name: "Visa", AccountType: domain.CreditCard})
	s.ErrorIs(err, apperrors.ErrCascadeIncomplete)
	s.ErrorIs(err, apperrors.ErrDuplicateCascadeEffect)
	s.NotNil(acc)
}

func (s *LedgerSuite) TestVerifyAccountBalance() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	shop := s.newPayee(b.BudgetID, "Grocer")
	s.post(checking.AccountID, shop.PayeeID, 5000, domain.Cleared)
	s.post(checking.AccountID, shop.PayeeID, -1200, domain.Uncleared)

	acc, err := s.svc.Account.VerifyAccountBalance(s.ctx, checking.AccountID)
	s.Require().NoError(err)
	s.Equal(int64(3800), acc.Balance.Amount())

	// Consistent with itself, but not with the transactions.
	_, err = s.db.ExecContext(s.ctx,
		`UPDATE accounts SET balance = balance + 100, cleared = cleared + 100 WHERE account_id = ?`, checking.AccountID)
	s.Require().NoError(err)

	_, err = s.svc.Account.VerifyAccountBalance(s.ctx, checking.AccountID)
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.requireBalances(checking.AccountID, 3900, 5100, -1200) // never corrected
}

func (s *LedgerSuite) TestStoredBalanceInvariantIsEnforced() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")

	_, err := s.db.ExecContext(s.ctx, `UPDATE accounts SET balance = 1 WHERE account_id = ?`, checking.AccountID)
	s.Error(err, "the CHECK constraint rejects balance != cleared + uncleared")
}

func (s *LedgerSuite) TestDeleteAccount() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	visa := s.newAccount(b.BudgetID, "Visa", domain.CreditCard, "")
	shop := s.newPayee(b.BudgetID, "Grocer")

	txn := s.post(checking.AccountID, shop.PayeeID, -500, domain.Cleared)
	err := s.svc.Account.DeleteAccount(s.ctx, checking.AccountID)
	s.ErrorIs(err, apperrors.ErrValidation)

	s.Require().NoError(s.svc.Transaction.DeleteTransaction(s.ctx, txn.TransactionID))
	s.Require().NoError(s.svc.Account.DeleteAccount(s.ctx, checking.AccountID))
	_, err = s.svc.Account.GetAccountByID(s.ctx, checking.AccountID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.svc.Payee.GetPayeeByID(s.ctx, checking.TransferPayeeID)
	s.ErrorIs(err, apperrors.ErrNotFound, "the transfer payee goes with the account")

	// A transfer into Visa references its transfer payee from another account.
	savings := s.newAccount(b.BudgetID, "Savings", domain.Bank, "")
	s.post(savings.AccountID, visa.TransferPayeeID, -300, domain.Cleared)
	s.ErrorIs(s.svc.Account.DeleteAccount(s.ctx, visa.AccountID), apperrors.ErrValidation)

	s.ErrorIs(s.svc.Account.DeleteAccount(s.ctx, "missing"), apperrors.ErrNotFound)
}

func (s *LedgerSuite) TestDeleteAccount_RemovesTrackingCategory() {
	b := s.newBudget("Household")
	visa := s.newAccount(b.BudgetID, "Visa", domain.CreditCard, "")

	s.Require().NoError(s.svc.Account.DeleteAccount(s.ctx, visa.AccountID))
	categories, err := s.svc.Category.ListCategories(s.ctx, b.BudgetID)
	s.Require().NoError(err)
	s.Empty(categories)
}
