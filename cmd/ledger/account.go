package main

import (
	"fmt"
	"strings"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/spf13/cobra"
)

func (a *app) accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	cmd.AddCommand(
		a.accountCreateCmd(),
		a.accountListCmd(),
		a.accountShowCmd(),
		a.accountVerifyCmd(),
		a.accountRepairCmd(),
		a.accountDeleteCmd(),
	)
	return cmd
}

func (a *app) accountCreateCmd() *cobra.Command {
	var (
		req         dto.CreateAccountRequest
		accountType string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account and print its id",
		Long: `Create an account together with its transfer payee. Credit card accounts
also get a payment tracking category in the "Credit Card Payments" group.

If the account is stored but the rest of the setup fails, its id is printed
and "ledger account repair <id>" finishes the job.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.AccountType = domain.AccountType(strings.ToUpper(accountType))
			if err := dto.Validate(req); err != nil {
				return err
			}
			account, err := a.svc.Account.CreateAccount(cmd.Context(), req)
			if account != nil {
				fmt.Fprintln(a.out(cmd), account.AccountID)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&req.BudgetID, "budget", "", "budget id")
	cmd.Flags().StringVar(&req.Name, "name", "", "account name")
	cmd.Flags().StringVar(&accountType, "type", string(domain.Bank), "account type (BANK, CREDIT_CARD)")
	cmd.Flags().StringVar(&req.CurrencyCode, "currency", "", "currency (default: the budget's)")
	_ = cmd.MarkFlagRequired("budget")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) accountListCmd() *cobra.Command {
	var budgetID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the accounts of a budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accounts, err := a.svc.Account.ListAccounts(cmd.Context(), budgetID)
			if err != nil {
				return err
			}
			t := newTable(a.out(cmd), "ID", "NAME", "TYPE", "BALANCE", "CLEARED", "UNCLEARED")
			for _, acc := range accounts {
				t.row(acc.AccountID, acc.Name, string(acc.AccountType), acc.Balance.String(), acc.Cleared.String(), acc.Uncleared.String())
			}
			return t.flush()
		},
	}
	cmd.Flags().StringVar(&budgetID, "budget", "", "budget id")
	_ = cmd.MarkFlagRequired("budget")
	return cmd
}

func (a *app) printAccount(cmd *cobra.Command, acc *domain.Account) {
	out := a.out(cmd)
	fmt.Fprintf(out, "ID:             %s\n", acc.AccountID)
	fmt.Fprintf(out, "Name:           %s\n", acc.Name)
	fmt.Fprintf(out, "Type:           %s\n", acc.AccountType)
	fmt.Fprintf(out, "Transfer payee: %s\n", acc.TransferPayeeID)
	fmt.Fprintf(out, "Balance:        %s\n", acc.Balance)
	fmt.Fprintf(out, "Cleared:        %s\n", acc.Cleared)
	fmt.Fprintf(out, "Uncleared:      %s\n", acc.Uncleared)
}

func (a *app) accountShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <account-id>",
		Short: "Show an account and its balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := a.svc.Account.GetAccountByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printAccount(cmd, acc)
			return nil
		},
	}
}

func (a *app) accountVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <account-id>",
		Short: "Recompute an account's balances from its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := a.svc.Account.VerifyAccountBalance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out(cmd), "OK %s balance=%s cleared=%s uncleared=%s\n", acc.AccountID, acc.Balance, acc.Cleared, acc.Uncleared)
			return nil
		},
	}
}

func (a *app) accountRepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair <account-id>",
		Short: "Create whatever an account's setup left missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := a.svc.Account.EnsureCascadeComplete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printAccount(cmd, acc)
			return nil
		},
	}
}

func (a *app) accountDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Delete an account no transaction references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.svc.Account.DeleteAccount(cmd.Context(), args[0])
		},
	}
}
