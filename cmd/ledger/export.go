package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// snapshot is the YAML document written by "ledger export".
type snapshot struct {
	ExportedAt string           `yaml:"exportedAt"`
	Budgets    []budgetSnapshot `yaml:"budgets"`
}

type budgetSnapshot struct {
	ID             string          `yaml:"id"`
	Name           string          `yaml:"name"`
	Currency       string          `yaml:"currency"`
	Accounts       []accountEntry  `yaml:"accounts"`
	Payees         []payeeEntry    `yaml:"payees"`
	CategoryGroups []groupEntry    `yaml:"categoryGroups"`
	Transactions   []snapshotEntry `yaml:"transactions"`
}

type accountEntry struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	Currency      string `yaml:"currency"`
	TransferPayee string `yaml:"transferPayee,omitempty"`
	Balance       int64  `yaml:"balance"`
	Cleared       int64  `yaml:"cleared"`
	Uncleared     int64  `yaml:"uncleared"`
}

type payeeEntry struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	TransferAccount string `yaml:"transferAccount,omitempty"`
}

type groupEntry struct {
	ID         string          `yaml:"id"`
	Name       string          `yaml:"name"`
	Locked     bool            `yaml:"locked,omitempty"`
	Categories []categoryEntry `yaml:"categories"`
}

type categoryEntry struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Locked          bool   `yaml:"locked,omitempty"`
	TrackingAccount string `yaml:"trackingAccount,omitempty"`
}

type snapshotEntry struct {
	ID       string `yaml:"id"`
	Account  string `yaml:"account"`
	Payee    string `yaml:"payee"`
	Date     string `yaml:"date"`
	Amount   int64  `yaml:"amount"`
	Currency string `yaml:"currency"`
	Status   string `yaml:"status"`
	Category string `yaml:"category,omitempty"`
	Memo     string `yaml:"memo,omitempty"`
	Transfer string `yaml:"transfer,omitempty"`
}

func (a *app) exportCmd() *cobra.Command {
	var budgetID, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a YAML snapshot of the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := a.snapshot(cmd.Context(), budgetID)
			if err != nil {
				return err
			}

			var w io.Writer = a.out(cmd)
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(snap); err != nil {
				return fmt.Errorf("failed to encode snapshot: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&budgetID, "budget", "", "export only this budget")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (a *app) snapshot(ctx context.Context, budgetID string) (*snapshot, error) {
	var budgets []domain.Budget
	if budgetID != "" {
		b, err := a.svc.Budget.GetBudgetByID(ctx, budgetID)
		if err != nil {
			return nil, err
		}
		budgets = []domain.Budget{*b}
	} else {
		var err error
		if budgets, err = a.svc.Budget.ListBudgets(ctx); err != nil {
			return nil, err
		}
	}

	snap := &snapshot{ExportedAt: dto.FormatTimestamp(time.Now()), Budgets: []budgetSnapshot{}}
	for _, b := range budgets {
		bs, err := a.budgetSnapshot(ctx, b)
		if err != nil {
			return nil, err
		}
		snap.Budgets = append(snap.Budgets, *bs)
	}
	return snap, nil
}

func (a *app) budgetSnapshot(ctx context.Context, b domain.Budget) (*budgetSnapshot, error) {
	bs := &budgetSnapshot{ID: b.BudgetID, Name: b.Name, Currency: b.CurrencyCode}

	accounts, err := a.svc.Account.ListAccounts(ctx, b.BudgetID)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		bs.Accounts = append(bs.Accounts, accountEntry{
			ID:            acc.AccountID,
			Name:          acc.Name,
			Type:          string(acc.AccountType),
			Currency:      acc.CurrencyCode,
			TransferPayee: acc.TransferPayeeID,
			Balance:       acc.Balance.Amount(),
			Cleared:       acc.Cleared.Amount(),
			Uncleared:     acc.Uncleared.Amount(),
		})
		txns, err := a.allTransactions(ctx, acc.AccountID)
		if err != nil {
			return nil, err
		}
		for _, t := range txns {
			bs.Transactions = append(bs.Transactions, snapshotEntry{
				ID:       t.TransactionID,
				Account:  t.AccountID,
				Payee:    t.PayeeID,
				Date:     dto.FormatDate(t.Date),
				Amount:   t.Amount.Amount(),
				Currency: t.Amount.Currency(),
				Status:   string(t.Status),
				Category: t.CategoryID,
				Memo:     t.Memo,
				Transfer: t.TransferTransactionID,
			})
		}
	}

	payees, err := a.svc.Payee.ListPayees(ctx, b.BudgetID)
	if err != nil {
		return nil, err
	}
	for _, p := range payees {
		bs.Payees = append(bs.Payees, payeeEntry{ID: p.PayeeID, Name: p.Name, TransferAccount: p.TransferAccountID})
	}

	groups, err := a.svc.Category.ListCategoryGroups(ctx, b.BudgetID)
	if err != nil {
		return nil, err
	}
	categories, err := a.svc.Category.ListCategories(ctx, b.BudgetID)
	if err != nil {
		return nil, err
	}
	byGroup := make(map[string][]categoryEntry)
	for _, c := range categories {
		byGroup[c.CategoryGroupID] = append(byGroup[c.CategoryGroupID], categoryEntry{
			ID:              c.CategoryID,
			Name:            c.Name,
			Locked:          c.Locked,
			TrackingAccount: c.TrackingAccountID,
		})
	}
	for _, g := range groups {
		bs.CategoryGroups = append(bs.CategoryGroups, groupEntry{
			ID:         g.CategoryGroupID,
			Name:       g.Name,
			Locked:     g.Locked,
			Categories: byGroup[g.CategoryGroupID],
		})
	}
	return bs, nil
}

func (a *app) allTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	var all []domain.Transaction
	params := dto.ListTransactionsParams{Limit: 500}
	for {
		page, next, err := a.svc.Transaction.ListTransactionsByAccount(ctx, accountID, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == nil {
			return all, nil
		}
		params.NextToken = next
	}
}
