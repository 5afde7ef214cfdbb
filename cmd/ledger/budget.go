package main

import (
	"fmt"

	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/spf13/cobra"
)

func (a *app) budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage budgets",
	}
	cmd.AddCommand(a.budgetCreateCmd(), a.budgetListCmd(), a.budgetDeleteCmd())
	return cmd
}

func (a *app) budgetCreateCmd() *cobra.Command {
	var req dto.CreateBudgetRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a budget and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.CurrencyCode == "" {
				req.CurrencyCode = a.cfg.DefaultCurrency
			}
			if err := dto.Validate(req); err != nil {
				return err
			}
			budget, err := a.svc.Budget.CreateBudget(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out(cmd), budget.BudgetID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "budget name")
	cmd.Flags().StringVar(&req.CurrencyCode, "currency", "", "ISO 4217 currency (default: DEFAULT_CURRENCY)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) budgetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			budgets, err := a.svc.Budget.ListBudgets(cmd.Context())
			if err != nil {
				return err
			}
			t := newTable(a.out(cmd), "ID", "NAME", "CURRENCY")
			for _, b := range budgets {
				t.row(b.BudgetID, b.Name, b.CurrencyCode)
			}
			return t.flush()
		},
	}
}

func (a *app) budgetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <budget-id>",
		Short: "Delete a budget that owns no accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.svc.Budget.DeleteBudget(cmd.Context(), args[0])
		},
	}
}
