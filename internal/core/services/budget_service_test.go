package services_test

import (
	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/dto"
)

func (s *LedgerSuite) TestCreateBudget() {
	b, err := s.svc.Budget.CreateBudget(s.ctx, dto.CreateBudgetRequest{Name: "  Household ", CurrencyCode: "eur"})
	s.Require().NoError(err)
	s.Equal("Household", b.Name)
	s.Equal("EUR", b.CurrencyCode)

	got, err := s.svc.Budget.GetBudgetByID(s.ctx, b.BudgetID)
	s.Require().NoError(err)
	s.Equal(b.BudgetID, got.BudgetID)

	_, err = s.svc.Budget.CreateBudget(s.ctx, dto.CreateBudgetRequest{Name: "Bad", CurrencyCode: "XXY"})
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.svc.Budget.CreateBudget(s.ctx, dto.CreateBudgetRequest{CurrencyCode: "USD"})
	s.ErrorIs(err, apperrors.ErrValidation)

	budgets, err := s.svc.Budget.ListBudgets(s.ctx)
	s.Require().NoError(err)
	s.Len(budgets, 1)
}

func (s *LedgerSuite) TestDeleteBudget_RefusedWhileAccountsExist() {
	b := s.newBudget("Household")
	visa := s.newAccount(b.BudgetID, "Visa", domain.CreditCard, "")
	s.newPayee(b.BudgetID, "Shop")

	s.ErrorIs(s.svc.Budget.DeleteBudget(s.ctx, b.BudgetID), apperrors.ErrValidation)

	s.Require().NoError(s.svc.Account.DeleteAccount(s.ctx, visa.AccountID))
	s.Require().NoError(s.svc.Budget.DeleteBudget(s.ctx, b.BudgetID))

	_, err := s.svc.Budget.GetBudgetByID(s.ctx, b.BudgetID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.repos.CategoryRepo.FindCategoryGroupByName(s.ctx, b.BudgetID, domain.CreditCardGroupName)
	s.ErrorIs(err, apperrors.ErrNotFound, "remaining groups go with the budget")
	s.ErrorIs(s.svc.Budget.DeleteBudget(s.ctx, b.BudgetID), apperrors.ErrNotFound)
}

func (s *LedgerSuite) TestCategories() {
	b := s.newBudget("Household")
	s.newAccount(b.BudgetID, "Visa", domain.CreditCard, "")

	_, err := s.svc.Category.CreateCategoryGroup(s.ctx, dto.CreateCategoryGroupRequest{BudgetID: b.BudgetID, Name: "credit card payments"})
	s.ErrorIs(err, apperrors.ErrValidation, "the reserved name is refused")

	bills, err := s.svc.Category.CreateCategoryGroup(s.ctx, dto.CreateCategoryGroupRequest{BudgetID: b.BudgetID, Name: "Bills"})
	s.Require().NoError(err)
	s.False(bills.Locked)
	_, err = s.svc.Category.CreateCategoryGroup(s.ctx, dto.CreateCategoryGroupRequest{BudgetID: b.BudgetID, Name: "Bills"})
	s.ErrorIs(err, apperrors.ErrDuplicate)

	rent, err := s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{CategoryGroupID: bills.CategoryGroupID, Name: "Rent"})
	s.Require().NoError(err)
	s.Equal(b.BudgetID, rent.BudgetID)
	s.False(rent.IsTracking())

	ccGroup, err := s.repos.CategoryRepo.FindCategoryGroupByName(s.ctx, b.BudgetID, domain.CreditCardGroupName)
	s.Require().NoError(err)
	_, err = s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{CategoryGroupID: ccGroup.CategoryGroupID, Name: "Sneaky"})
	s.ErrorIs(err, apperrors.ErrValidation, "locked groups are managed by the ledger")

	_, err = s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{CategoryGroupID: "missing", Name: "Nope"})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerSuite) TestPayees() {
	b := s.newBudget("Household")

	_, err := s.svc.Payee.CreatePayee(s.ctx, dto.CreatePayeeRequest{BudgetID: b.BudgetID, Name: "Transfer : Fake"})
	s.ErrorIs(err, apperrors.ErrValidation)

	first, err := s.svc.Payee.FindOrCreatePayee(s.ctx, b.BudgetID, "Grocer")
	s.Require().NoError(err)
	second, err := s.svc.Payee.FindOrCreatePayee(s.ctx, b.BudgetID, "Grocer")
	s.Require().NoError(err)
	s.Equal(first.PayeeID, second.PayeeID)
	s.False(first.IsTransfer())
}
