package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_ledger/internal/core/ports/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// cascade materializes the entities an account depends on: the payment tracking
// category of a credit card and the transfer payee of every account.
// Each step looks up the entity by its unique key before creating it, so running
// the cascade again on a complete account changes nothing.
type cascade struct {
	BaseService
	txManager    portsrepo.TransactionManager
	accountRepo  portsrepo.AccountRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	payeeRepo    portsrepo.PayeeRepositoryFacade
}

// run executes both steps concurrently and waits for both to finish.
func (c *cascade) run(ctx context.Context, account domain.Account) error {
	var g errgroup.Group
	if account.IsCreditCard() {
		g.Go(func() error {
			return c.ensureTrackingCategory(ctx, account)
		})
	}
	g.Go(func() error {
		return c.ensureTransferPayee(ctx, account.AccountID)
	})
	return g.Wait()
}

// ensureCreditCardGroup returns the budget's reserved payments group, creating it on first use.
func (c *cascade) ensureCreditCardGroup(ctx context.Context, budgetID string) (*domain.CategoryGroup, error) {
	group, err := c.categoryRepo.FindCategoryGroupByName(ctx, budgetID, domain.CreditCardGroupName)
	switch {
	case err == nil:
		return checkCreditCardGroup(group)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	ts := now()
	newGroup := domain.CategoryGroup{
		CategoryGroupID: uuid.NewString(),
		BudgetID:        budgetID,
		Name:            domain.CreditCardGroupName,
		Locked:          true,
		AuditFields:     domain.AuditFields{CreatedAt: ts, LastUpdatedAt: ts},
	}
	err = c.categoryRepo.SaveCategoryGroup(ctx, newGroup)
	if err == nil {
		c.LogInfo(ctx, "Created credit card payments group",
			slog.String("budget_id", budgetID),
			slog.String("category_group_id", newGroup.CategoryGroupID))
		return &newGroup, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicate) {
		return nil, err
	}

	// Another cascade created the group first.
	group, err = c.categoryRepo.FindCategoryGroupByName(ctx, budgetID, domain.CreditCardGroupName)
	if err != nil {
		return nil, err
	}
	return checkCreditCardGroup(group)
}

func checkCreditCardGroup(group *domain.CategoryGroup) (*domain.CategoryGroup, error) {
	if !group.Locked {
		return nil, fmt.Errorf("%w: category group %s uses the reserved name but is not locked",
			apperrors.ErrDuplicateCascadeEffect, group.CategoryGroupID)
	}
	return group, nil
}

// ensureTrackingCategory creates the locked category that tracks payments for a credit card.
func (c *cascade) ensureTrackingCategory(ctx context.Context, account domain.Account) error {
	existing, err := c.categoryRepo.FindCategoryByTrackingAccount(ctx, account.AccountID)
	switch {
	case err == nil:
		return c.checkTrackingCategory(ctx, account, existing)
	case !errors.Is(err, apperrors.ErrNotFound):
		return err
	}

	group, err := c.ensureCreditCardGroup(ctx, account.BudgetID)
	if err != nil {
		return err
	}

	ts := now()
	category := domain.Category{
		CategoryID:        uuid.NewString(),
		BudgetID:          account.BudgetID,
		CategoryGroupID:   group.CategoryGroupID,
		TrackingAccountID: account.AccountID,
		Name:              account.Name,
		Locked:            true,
		AuditFields:       domain.AuditFields{CreatedAt: ts, LastUpdatedAt: ts},
	}
	err = c.categoryRepo.SaveCategory(ctx, category)
	if err == nil {
		c.LogInfo(ctx, "Created credit card tracking category",
			slog.String("account_id", account.AccountID),
			slog.String("category_id", category.CategoryID))
		return nil
	}
	if !errors.Is(err, apperrors.ErrDuplicate) {
		return err
	}

	existing, err = c.categoryRepo.FindCategoryByTrackingAccount(ctx, account.AccountID)
	if err != nil {
		return err
	}
	return c.checkTrackingCategory(ctx, account, existing)
}

// checkTrackingCategory accepts an existing tracking category only if it is the one
// the cascade would have created.
func (c *cascade) checkTrackingCategory(ctx context.Context, account domain.Account, category *domain.Category) error {
	if category.BudgetID != account.BudgetID || !category.Locked {
		return fmt.Errorf("%w: category %s tracks account %s but is not a locked category of budget %s",
			apperrors.ErrDuplicateCascadeEffect, category.CategoryID, account.AccountID, account.BudgetID)
	}
	group, err := c.categoryRepo.FindCategoryGroupByID(ctx, category.CategoryGroupID)
	if err != nil {
		return err
	}
	if group.Name != domain.CreditCardGroupName || !group.Locked {
		return fmt.Errorf("%w: category %s tracks account %s outside the %q group",
			apperrors.ErrDuplicateCascadeEffect, category.CategoryID, account.AccountID, domain.CreditCardGroupName)
	}
	return nil
}

// ensureTransferPayee creates the account's transfer payee and links it back.
// A duplicate key means a concurrent cascade created the payee; the second
// attempt finds and links it.
func (c *cascade) ensureTransferPayee(ctx context.Context, accountID string) error {
	err := c.linkTransferPayee(ctx, accountID)
	if errors.Is(err, apperrors.ErrDuplicate) {
		c.LogDebug(ctx, "Transfer payee created concurrently, retrying", slog.String("account_id", accountID))
		err = c.linkTransferPayee(ctx, accountID)
	}
	return err
}

func (c *cascade) linkTransferPayee(ctx context.Context, accountID string) error {
	return c.txManager.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := c.accountRepo.FindAccountsByIDsForUpdate(ctx, []string{accountID})
		if err != nil {
			return err
		}
		account := locked[accountID]

		payee, err := c.payeeRepo.FindPayeeByTransferAccount(ctx, accountID)
		switch {
		case err == nil:
			if payee.BudgetID != account.BudgetID {
				return fmt.Errorf("%w: transfer payee %s of account %s belongs to budget %s",
					apperrors.ErrDuplicateCascadeEffect, payee.PayeeID, accountID, payee.BudgetID)
			}
		case errors.Is(err, apperrors.ErrNotFound):
			ts := now()
			payee = &domain.Payee{
				PayeeID:           uuid.NewString(),
				BudgetID:          account.BudgetID,
				Name:              domain.TransferPayeeName(account.Name),
				TransferAccountID: accountID,
				AuditFields:       domain.AuditFields{CreatedAt: ts, LastUpdatedAt: ts},
			}
			if err := c.payeeRepo.SavePayee(ctx, *payee); err != nil {
				return err
			}
			c.LogInfo(ctx, "Created transfer payee",
				slog.String("account_id", accountID),
				slog.String("payee_id", payee.PayeeID))
		default:
			return err
		}

		switch account.TransferPayeeID {
		case payee.PayeeID:
			return nil
		case "":
		default:
			return fmt.Errorf("%w: account %s links payee %s but payee %s represents it",
				apperrors.ErrDuplicateCascadeEffect, accountID, account.TransferPayeeID, payee.PayeeID)
		}

		linked, err := c.accountRepo.LinkTransferPayee(ctx, accountID, payee.PayeeID, now())
		if err != nil {
			return err
		}
		if !linked {
			return fmt.Errorf("%w: transfer payee of account %s changed while locked", apperrors.ErrConflict, accountID)
		}
		return nil
	})
}
