package services_test

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/budget_ledger/internal/core/services"
	"github.com/SscSPs/budget_ledger/internal/dto"
)

func ptr[T any](v T) *T { return &v }

// staleTransactionRepository hands out an outdated copy of one transaction on
// its first lookup, as a read taken before a concurrent commit would.
type staleTransactionRepository struct {
	portsrepo.TransactionRepositoryFacade
	mu    sync.Mutex
	stale *domain.Transaction
}

func (r *staleTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	r.mu.Lock()
	stale := r.stale
	if stale != nil && stale.TransactionID == transactionID {
		r.stale = nil
		r.mu.Unlock()
		copied := *stale
		return &copied, nil
	}
	r.mu.Unlock()
	return r.TransactionRepositoryFacade.FindTransactionByID(ctx, transactionID)
}

func (s *LedgerSuite) TestPost_ClearedDepositThenUnclearedOutflow() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	employer := s.newPayee(b.BudgetID, "Employer")
	s.requireBalances(checking.AccountID, 0, 0, 0)

	s.post(checking.AccountID, employer.PayeeID, 5000, domain.Cleared)
	s.requireBalances(checking.AccountID, 5000, 5000, 0)

	s.post(checking.AccountID, employer.PayeeID, -1000, domain.Uncleared)
	s.requireBalances(checking.AccountID, 4000, 5000, -1000)
}

func (s *LedgerSuite) TestPost_DefaultsAndZeroAmount() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	p := s.newPayee(b.BudgetID, "Shop")

	txn, err := s.svc.Transaction.PostTransaction(s.ctx, dto.PostTransactionRequest{
		AccountID: checking.AccountID,
		PayeeID:   p.PayeeID,
		Amount:    0,
		Date:      "2024-03-01",
	})
	s.Require().NoError(err)
	s.Equal(domain.Uncleared, txn.Status)
	s.Equal("USD", txn.Amount.Currency())
	s.requireBalances(checking.AccountID, 0, 0, 0)
	s.Len(s.transactions(checking.AccountID), 1, "zero amounts still count as history")
}

func (s *LedgerSuite) TestPost_Validation() {
	b := s.newBudget("Household")
	other := s.newBudget("Other")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	p := s.newPayee(b.BudgetID, "Shop")
	foreignPayee := s.newPayee(other.BudgetID, "Elsewhere")
	group, err := s.svc.Category.CreateCategoryGroup(s.ctx, dto.CreateCategoryGroupRequest{BudgetID: other.BudgetID, Name: "Bills"})
	s.Require().NoError(err)
	foreignCategory, err := s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{CategoryGroupID: group.CategoryGroupID, Name: "Rent"})
	s.Require().NoError(err)

	base := dto.PostTransactionRequest{AccountID: checking.AccountID, PayeeID: p.PayeeID, Amount: -100, Date: "2024-01-01"}
	cases := []struct {
		name   string
		mutate func(r *dto.PostTransactionRequest)
		want   error
	}{
		{"unknown account", func(r *dto.PostTransactionRequest) { r.AccountID = "missing" }, apperrors.ErrNotFound},
		{"unknown payee", func(r *dto.PostTransactionRequest) { r.PayeeID = "missing" }, apperrors.ErrNotFound},
		{"unknown category", func(r *dto.PostTransactionRequest) { r.CategoryID = "missing" }, apperrors.ErrNotFound},
		{"payee of another budget", func(r *dto.PostTransactionRequest) { r.PayeeID = foreignPayee.PayeeID }, apperrors.ErrValidation},
		{"category of another budget", func(r *dto.PostTransactionRequest) { r.CategoryID = foreignCategory.CategoryID }, apperrors.ErrValidation},
		{"transfer to itself", func(r *dto.PostTransactionRequest) { r.PayeeID = checking.TransferPayeeID }, apperrors.ErrValidation},
		{"currency mismatch", func(r *dto.PostTransactionRequest) { r.CurrencyCode = "EUR" }, apperrors.ErrCurrencyMismatch},
		{"bad date", func(r *dto.PostTransactionRequest) { r.Date = "yesterday" }, apperrors.ErrValidation},
		{"bad status", func(r *dto.PostTransactionRequest) { r.Status = "PENDING" }, apperrors.ErrValidation},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			req := base
			tc.mutate(&req)
			_, err := s.svc.Transaction.PostTransaction(s.ctx, req)
			s.ErrorIs(err, tc.want)
		})
	}
	s.requireBalances(checking.AccountID, 0, 0, 0)
	s.Empty(s.transactions(checking.AccountID))
}

func (s *LedgerSuite) TestPost_TransferPostsBothSides() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	savings := s.newAccount(b.BudgetID, "Savings", domain.Bank, "")

	txn, err := s.svc.Transaction.PostTransaction(s.ctx, dto.PostTransactionRequest{
		AccountID: checking.AccountID,
		PayeeID:   savings.TransferPayeeID,
		Amount:    -2500,
		Date:      "2024-02-01",
		Memo:      "rainy day",
		Status:    domain.Cleared,
	})
	s.Require().NoError(err)
	s.Require().True(txn.IsTransfer())

	s.requireBalances(checking.AccountID, -2500, -2500, 0)
	s.requireBalances(savings.AccountID, 2500, 2500, 0)

	mirror, err := s.svc.Transaction.GetTransactionByID(s.ctx, txn.TransferTransactionID)
	s.Require().NoError(err)
	s.Equal(savings.AccountID, mirror.AccountID)
	s.Equal(checking.TransferPayeeID, mirror.PayeeID)
	s.Equal(int64(2500), mirror.Amount.Amount())
	s.Equal(txn.TransactionID, mirror.TransferTransactionID)
	s.Equal("rainy day", mirror.Memo)
	s.Equal(domain.Cleared, mirror.Status)
	s.True(txn.Date.Equal(mirror.Date))
	s.Empty(mirror.CategoryID)

	stored, err := s.svc.Transaction.GetTransactionByID(s.ctx, txn.TransactionID)
	s.Require().NoError(err)
	s.Equal(mirror.TransactionID, stored.TransferTransactionID)
}

func (s *LedgerSuite) TestPost_TransferCounterpartFailureRollsBackBothSides() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	euro := s.newAccount(b.BudgetID, "Euro Savings", domain.Bank, "EUR")
	employer := s.newPayee(b.BudgetID, "Employer")
	s.post(checking.AccountID, employer.PayeeID, 5000, domain.Cleared)

	_, err := s.svc.Transaction.PostTransaction(s.ctx, dto.PostTransactionRequest{
		AccountID: checking.AccountID,
		PayeeID:   euro.TransferPayeeID,
		Amount:    -1000,
		Date:      "2024-02-01",
		Status:    domain.Cleared,
	})
	s.ErrorIs(err, apperrors.ErrPartialTransferFailure)
	s.ErrorIs(err, apperrors.ErrCurrencyMismatch)

	s.requireBalances(checking.AccountID, 5000, 5000, 0)
	s.requireBalances(euro.AccountID, 0, 0, 0)
	s.Len(s.transactions(checking.AccountID), 1)
	s.Empty(s.transactions(euro.AccountID))
}

func (s *LedgerSuite) TestUpdate_ReversesThenApplies() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	p := s.newPayee(b.BudgetID, "Shop")
	txn := s.post(checking.AccountID, p.PayeeID, -1000, domain.Uncleared)

	updated, err := s.svc.Transaction.UpdateTransaction(s.ctx, txn.TransactionID, dto.UpdateTransactionRequest{
		Amount: ptr(int64(-1500)),
		Status: ptr(domain.Cleared),
		Memo:   ptr("weekly shop"),
	})
	s.Require().NoError(err)
	s.Equal(int64(-1500), updated.Amount.Amount())
	s.Equal("weekly shop", updated.Memo)
	s.requireBalances(checking.AccountID, -1500, -1500, 0)

	_, err = s.svc.Account.VerifyAccountBalance(s.ctx, checking.AccountID)
	s.NoError(err)
}

func (s *LedgerSuite) TestUpdate_MovesBetweenAccounts() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	cash := s.newAccount(b.BudgetID, "Cash", domain.Bank, "")
	p := s.newPayee(b.BudgetID, "Shop")
	txn := s.post(checking.AccountID, p.PayeeID, -700, domain.Cleared)

	_, err := s.svc.Transaction.UpdateTransaction(s.ctx, txn.TransactionID, dto.UpdateTransactionRequest{AccountID: ptr(cash.AccountID)})
	s.Require().NoError(err)
	s.requireBalances(checking.AccountID, 0, 0, 0)
	s.requireBalances(cash.AccountID, -700, -700, 0)
}

func (s *LedgerSuite) TestUpdate_MoveToOtherCurrencyAccountIsRejected() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	euro := s.newAccount(b.BudgetID, "Euro Cash", domain.Bank, "EUR")
	p := s.newPayee(b.BudgetID, "Shop")
	txn := s.post(checking.AccountID, p.PayeeID, -700, domain.Cleared)

	_, err := s.svc.Transaction.UpdateTransaction(s.ctx, txn.TransactionID, dto.UpdateTransactionRequest{AccountID: ptr(euro.AccountID)})
	s.Require().ErrorIs(err, apperrors.ErrCurrencyMismatch)
	s.requireBalances(checking.AccountID, -700, -700, 0)
	s.requireBalances(euro.AccountID, 0, 0, 0)

	txns := s.transactions(checking.AccountID)
	s.Require().Len(txns, 1)
	s.Equal(txn.TransactionID, txns[0].TransactionID)
	s.Equal(domain.NewMoney(-700, "USD"), txns[0].Amount)
	s.Empty(s.transactions(euro.AccountID))
}

func (s *LedgerSuite) TestUpdate_KeepsConcurrentEditsMadeBeforeLocking() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	shop := s.newPayee(b.BudgetID, "Shop")
	market := s.newPayee(b.BudgetID, "Market")
	txn, err := s.svc.Transaction.PostTransaction(s.ctx, dto.PostTransactionRequest{
		AccountID: checking.AccountID,
		PayeeID:   shop.PayeeID,
		Amount:    -500,
		Date:      "2024-01-15",
		Status:    domain.Uncleared,
		Memo:      "groceries",
	})
	s.Require().NoError(err)

	_, err = s.svc.Transaction.UpdateTransaction(s.ctx, txn.TransactionID, dto.UpdateTransactionRequest{
		Memo:    ptr("weekly groceries"),
		PayeeID: ptr(market.PayeeID),
	})
	s.Require().NoError(err)

	repos := s.repos
	repos.TransactionRepo = &staleTransactionRepository{TransactionRepositoryFacade: s.repos.TransactionRepo, stale: txn}
	transactions := services.NewTransactionService(repos)

	updated, err := transactions.UpdateTransaction(s.ctx, txn.TransactionID, dto.UpdateTransactionRequest{Amount: ptr(int64(-800))})
	s.Require().NoError(err)
	s.Equal("weekly groceries", updated.Memo)
	s.Equal(market.PayeeID, updated.PayeeID)
	s.Equal(int64(-800), updated.Amount.Amount())

	txns := s.transactions(checking.AccountID)
	s.Require().Len(txns, 1)
	s.Equal("weekly groceries", txns[0].Memo)
	s.Equal(market.PayeeID, txns[0].PayeeID)
	s.requireBalances(checking.AccountID, -800, 0, -800)
}

func (s *LedgerSuite) TestUpdate_FailureLeavesEverythingUntouched() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	p := s.newPayee(b.BudgetID, "Shop")
	txn := s.post(checking.AccountID, p.PayeeID, -700, domain.Cleared)

	_, err := s.svc.Transaction.UpdateTransaction(s.ctx, txn.TransactionID, dto.UpdateTransactionRequest{
		Amount:       ptr(int64(-900)),
		CurrencyCode: ptr("EUR"),
	})
	s.ErrorIs(err, apperrors.ErrCurrencyMismatch)
	s.requireBalances(checking.AccountID, -700, -700, 0)

	_, err = s.svc.Transaction.UpdateTransaction(s.ctx, "missing", dto.UpdateTransactionRequest{})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerSuite) TestUpdate_TransferLifecycle() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	savings := s.newAccount(b.BudgetID, "Savings", domain.Bank, "")
	visa := s.newAccount(b.BudgetID, "Visa", domain.CreditCard, "")
	p := s.newPayee(b.BudgetID, "Shop")
	txn := s.post(checking.AccountID, p.PayeeID, -400, domain.Uncleared)

	// Regular -> transfer creates the counterpart.
	updated, err := s.svc.Transaction.UpdateTransaction(s.ctx, txn.TransactionID, dto.UpdateTransactionRequest{PayeeID: ptr(savings.TransferPayeeID)})
	s.Require().NoError(err)
	s.Require().True(updated.IsTransfer())
	mirrorID := updated.TransferTransactionID
	s.requireBalances(checking.AccountID, -400, 0, -400)
	s.requireBalances(savings.AccountID, 400, 0, 400)

	// Amount and status follow on the counterpart.
	updated, err = s.svc.Transaction.UpdateTransaction(s.ctx, txn.TransactionID, dto.UpdateTransactionRequest{
		Amount: ptr(int64(-600)),
		Status: ptr(domain.Cleared),
	})
	s.Require().NoError(err)
	s.Equal(mirrorID, updated.TransferTransactionID)
	s.requireBalances(checking.AccountID, -600, -600, 0)
	s.requireBalances(savings.AccountID, 600, 600, 0)

	// Editing the counterpart side moves the initiating side too.
	_, err = s.svc.Transaction.UpdateTransaction(s.ctx, mirrorID, dto.UpdateTransactionRequest{Amount: ptr(int64(800))})
	s.Require().NoError(err)
	s.requireBalances(checking.AccountID, -800, -800, 0)
	s.requireBalances(savings.AccountID, 800, 800, 0)

	// Pointing at another account moves the counterpart.
	updated, err = s.svc.Transaction.UpdateTransaction(s.ctx, txn.TransactionID, dto.UpdateTransactionRequest{PayeeID: ptr(visa.TransferPayeeID)})
	s.Require().NoError(err)
	s.Equal(mirrorID, updated.TransferTransactionID)
	s.requireBalances(savings.AccountID, 0, 0, 0)
	s.requireBalances(visa.AccountID, 800, 800, 0)
	s.Empty(s.transactions(savings.AccountID))

	// Transfer -> regular removes the counterpart.
	updated, err = s.svc.Transaction.UpdateTransaction(s.ctx, txn.TransactionID, dto.UpdateTransactionRequest{PayeeID: ptr(p.PayeeID)})
	s.Require().NoError(err)
	s.False(updated.IsTransfer())
	s.requireBalances(checking.AccountID, -800, -800, 0)
	s.requireBalances(visa.AccountID, 0, 0, 0)
	_, err = s.svc.Transaction.GetTransactionByID(s.ctx, mirrorID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerSuite) TestDelete_RemovesBothSidesOfATransfer() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	savings := s.newAccount(b.BudgetID, "Savings", domain.Bank, "")
	txn := s.post(checking.AccountID, savings.TransferPayeeID, -300, domain.Reconciled)
	s.requireBalances(savings.AccountID, 300, 300, 0)

	s.Require().NoError(s.svc.Transaction.DeleteTransaction(s.ctx, txn.TransferTransactionID))
	s.requireBalances(checking.AccountID, 0, 0, 0)
	s.requireBalances(savings.AccountID, 0, 0, 0)
	s.Empty(s.transactions(checking.AccountID))
	s.Empty(s.transactions(savings.AccountID))

	s.ErrorIs(s.svc.Transaction.DeleteTransaction(s.ctx, txn.TransactionID), apperrors.ErrNotFound)
}

func (s *LedgerSuite) TestPost_TransferFromIncompleteAccount() {
	b := s.newBudget("Household")
	savings := s.newAccount(b.BudgetID, "Savings", domain.Bank, "")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	_, err := s.db.ExecContext(s.ctx, `UPDATE accounts SET transfer_payee_id = NULL WHERE account_id = ?`, checking.AccountID)
	s.Require().NoError(err)

	_, err = s.svc.Transaction.PostTransaction(s.ctx, dto.PostTransactionRequest{
		AccountID: checking.AccountID,
		PayeeID:   savings.TransferPayeeID,
		Amount:    -100,
		Date:      "2024-01-01",
	})
	s.ErrorIs(err, apperrors.ErrPartialTransferFailure)
	s.ErrorIs(err, apperrors.ErrCascadeIncomplete)
	s.requireBalances(checking.AccountID, 0, 0, 0)

	repaired, err := s.svc.Account.EnsureCascadeComplete(s.ctx, checking.AccountID)
	s.Require().NoError(err)
	s.NotEmpty(repaired.TransferPayeeID)
}

func (s *LedgerSuite) TestConcurrentPosts_LoseNoUpdates() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	savings := s.newAccount(b.BudgetID, "Savings", domain.Bank, "")
	p := s.newPayee(b.BudgetID, "Employer")
	const n = 20

	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.svc.Transaction.PostTransaction(s.ctx, dto.PostTransactionRequest{
				AccountID: checking.AccountID, PayeeID: p.PayeeID, Amount: 100, Date: "2024-01-01", Status: domain.Cleared,
			})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			// Opposite-direction transfers lock both accounts.
			_, err := s.svc.Transaction.PostTransaction(s.ctx, dto.PostTransactionRequest{
				AccountID: savings.AccountID, PayeeID: checking.TransferPayeeID, Amount: -10, Date: "2024-01-01",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	s.requireBalances(checking.AccountID, n*110, n*100, n*10)
	s.requireBalances(savings.AccountID, -n*10, 0, -n*10)
}

func (s *LedgerSuite) TestRandomOperations_KeepBalancesConsistent() {
	b := s.newBudget("Household")
	accounts := []*domain.Account{
		s.newAccount(b.BudgetID, "Checking", domain.Bank, ""),
		s.newAccount(b.BudgetID, "Savings", domain.Bank, ""),
		s.newAccount(b.BudgetID, "Visa", domain.CreditCard, ""),
	}
	shop := s.newPayee(b.BudgetID, "Shop")
	statuses := []domain.TransactionStatus{domain.Uncleared, domain.Cleared, domain.Reconciled}
	rng := rand.New(rand.NewSource(7))

	var live []string
	for i := 0; i < 60; i++ {
		src := accounts[rng.Intn(len(accounts))]
		payeeID := shop.PayeeID
		if dst := accounts[rng.Intn(len(accounts))]; dst != src && rng.Intn(3) == 0 {
			payeeID = dst.TransferPayeeID
		}
		switch op := rng.Intn(4); {
		case op <= 1 || len(live) == 0:
			txn := s.post(src.AccountID, payeeID, rng.Int63n(20001)-10000, statuses[rng.Intn(3)])
			live = append(live, txn.TransactionID)
		case op == 2:
			id := live[rng.Intn(len(live))]
			_, err := s.svc.Transaction.UpdateTransaction(s.ctx, id, dto.UpdateTransactionRequest{
				Amount: ptr(rng.Int63n(20001) - 10000),
				Status: ptr(statuses[rng.Intn(3)]),
			})
			s.Require().NoError(err, fmt.Sprintf("update %d", i))
		default:
			k := rng.Intn(len(live))
			s.Require().NoError(s.svc.Transaction.DeleteTransaction(s.ctx, live[k]), fmt.Sprintf("delete %d", i))
			live = append(live[:k], live[k+1:]...)
		}

		for _, acc := range accounts {
			_, err := s.svc.Account.VerifyAccountBalance(s.ctx, acc.AccountID)
			s.Require().NoError(err, fmt.Sprintf("operation %d on %s", i, acc.Name))
		}
	}
}

func (s *LedgerSuite) TestListTransactions_Paginates() {
	b := s.newBudget("Household")
	checking := s.newAccount(b.BudgetID, "Checking", domain.Bank, "")
	p := s.newPayee(b.BudgetID, "Shop")
	for day := 1; day <= 5; day++ {
		_, err := s.svc.Transaction.PostTransaction(s.ctx, dto.PostTransactionRequest{
			AccountID: checking.AccountID, PayeeID: p.PayeeID, Amount: int64(-day), Date: fmt.Sprintf("2024-01-%02d", day),
		})
		s.Require().NoError(err)
	}

	var seen []int64
	var token *string
	for page := 0; page < 3; page++ {
		txns, next, err := s.svc.Transaction.ListTransactionsByAccount(s.ctx, checking.AccountID, dto.ListTransactionsParams{Limit: 2, NextToken: token})
		s.Require().NoError(err)
		for _, t := range txns {
			seen = append(seen, t.Amount.Amount())
		}
		token = next
	}
	s.Nil(token)
	s.Equal([]int64{-5, -4, -3, -2, -1}, seen, "newest first without overlap")

	_, _, err := s.svc.Transaction.ListTransactionsByAccount(s.ctx, checking.AccountID, dto.ListTransactionsParams{Limit: 2, NextToken: ptr("not a token")})
	s.ErrorIs(err, apperrors.ErrValidation)
	_, _, err = s.svc.Transaction.ListTransactionsByAccount(s.ctx, "missing", dto.ListTransactionsParams{})
	s.ErrorIs(err, apperrors.ErrNotFound)
}
