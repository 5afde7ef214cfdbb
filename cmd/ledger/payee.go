package main

import (
	"fmt"

	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/spf13/cobra"
)

func (a *app) payeeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payee",
		Short: "Manage payees",
	}
	cmd.AddCommand(a.payeeCreateCmd(), a.payeeListCmd())
	return cmd
}

func (a *app) payeeCreateCmd() *cobra.Command {
	var req dto.CreatePayeeRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a payee and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := dto.Validate(req); err != nil {
				return err
			}
			payee, err := a.svc.Payee.CreatePayee(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out(cmd), payee.PayeeID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.BudgetID, "budget", "", "budget id")
	cmd.Flags().StringVar(&req.Name, "name", "", "payee name")
	_ = cmd.MarkFlagRequired("budget")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) payeeListCmd() *cobra.Command {
	var budgetID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the payees of a budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payees, err := a.svc.Payee.ListPayees(cmd.Context(), budgetID)
			if err != nil {
				return err
			}
			t := newTable(a.out(cmd), "ID", "NAME", "TRANSFER ACCOUNT")
			for _, p := range payees {
				t.row(p.PayeeID, p.Name, p.TransferAccountID)
			}
			return t.flush()
		},
	}
	cmd.Flags().StringVar(&budgetID, "budget", "", "budget id")
	_ = cmd.MarkFlagRequired("budget")
	return cmd
}
