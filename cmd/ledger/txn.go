package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/spf13/cobra"
)

func (a *app) txnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "txn",
		Aliases: []string{"transaction"},
		Short:   "Post, list, edit and delete transactions",
	}
	cmd.AddCommand(a.txnPostCmd(), a.txnListCmd(), a.txnUpdateCmd(), a.txnDeleteCmd())
	return cmd
}

// minorUnits parses a major-unit amount such as "-12.34" in the currency given,
// or in the account's currency when none is.
func (a *app) minorUnits(ctx context.Context, accountID, amount, currency string) (int64, error) {
	if currency == "" {
		acc, err := a.svc.Account.GetAccountByID(ctx, accountID)
		if err != nil {
			return 0, err
		}
		currency = acc.CurrencyCode
	}
	m, err := domain.ParseMoney(amount, currency)
	if err != nil {
		return 0, err
	}
	return m.Amount(), nil
}

func (a *app) txnPostCmd() *cobra.Command {
	var (
		req    dto.PostTransactionRequest
		amount string
		status string
	)
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a transaction and print its id",
		Long: `Post a transaction. Amounts are signed major units: "-12.34" is an outflow.
Using an account's transfer payee posts a transfer and its mirror on the other account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			req.CurrencyCode = strings.ToUpper(req.CurrencyCode)
			req.Status = domain.TransactionStatus(strings.ToUpper(status))
			minor, err := a.minorUnits(ctx, req.AccountID, amount, req.CurrencyCode)
			if err != nil {
				return err
			}
			req.Amount = minor
			if err := dto.Validate(req); err != nil {
				return err
			}
			txn, err := a.svc.Transaction.PostTransaction(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out(cmd), txn.TransactionID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.AccountID, "account", "", "account id")
	cmd.Flags().StringVar(&req.PayeeID, "payee", "", "payee id (an account's transfer payee makes a transfer)")
	cmd.Flags().StringVar(&amount, "amount", "", "signed amount in major units, e.g. -12.34")
	cmd.Flags().StringVar(&req.CurrencyCode, "currency", "", "currency (default: the account's)")
	cmd.Flags().StringVar(&req.Date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Memo, "memo", "", "memo")
	cmd.Flags().StringVar(&req.CategoryID, "category", "", "category id")
	cmd.Flags().StringVar(&status, "status", string(domain.Uncleared), "UNCLEARED, CLEARED or RECONCILED")
	for _, name := range []string{"account", "payee", "amount", "date"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *app) txnListCmd() *cobra.Command {
	var params dto.ListTransactionsParams
	var next string
	cmd := &cobra.Command{
		Use:   "list <account-id>",
		Short: "List an account's transactions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if next != "" {
				params.NextToken = &next
			}
			txns, nextToken, err := a.svc.Transaction.ListTransactionsByAccount(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			t := newTable(a.out(cmd), "ID", "DATE", "PAYEE", "AMOUNT", "STATUS", "TRANSFER", "MEMO")
			for _, txn := range txns {
				t.row(txn.TransactionID, dto.FormatDate(txn.Date), txn.PayeeID, txn.Amount.String(), string(txn.Status), txn.TransferTransactionID, txn.Memo)
			}
			if err := t.flush(); err != nil {
				return err
			}
			if nextToken != nil {
				fmt.Fprintf(a.out(cmd), "\nnext page: --next %s\n", *nextToken)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&params.Limit, "limit", 50, "page size")
	cmd.Flags().StringVar(&next, "next", "", "token of the page to fetch")
	return cmd
}

func (a *app) txnUpdateCmd() *cobra.Command {
	var accountID, payeeID, amount, currency, date, memo, categoryID, status string
	cmd := &cobra.Command{
		Use:   "update <transaction-id>",
		Short: "Change fields of a transaction",
		Long:  `Only the flags given are changed. --category "" clears the category.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()
			var req dto.UpdateTransactionRequest
			if flags.Changed("account") {
				req.AccountID = &accountID
			}
			if flags.Changed("payee") {
				req.PayeeID = &payeeID
			}
			if flags.Changed("currency") {
				currency = strings.ToUpper(currency)
				req.CurrencyCode = &currency
			}
			if flags.Changed("amount") {
				target := accountID
				if target == "" {
					txn, err := a.svc.Transaction.GetTransactionByID(ctx, args[0])
					if err != nil {
						return err
					}
					target = txn.AccountID
				}
				minor, err := a.minorUnits(ctx, target, amount, currency)
				if err != nil {
					return err
				}
				req.Amount = &minor
			}
			if flags.Changed("date") {
				req.Date = &date
			}
			if flags.Changed("memo") {
				req.Memo = &memo
			}
			if flags.Changed("category") {
				req.CategoryID = &categoryID
			}
			if flags.Changed("status") {
				s := domain.TransactionStatus(strings.ToUpper(status))
				req.Status = &s
			}
			if err := dto.Validate(req); err != nil {
				return err
			}
			txn, err := a.svc.Transaction.UpdateTransaction(ctx, args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out(cmd), "%s %s %s %s\n", txn.TransactionID, dto.FormatDate(txn.Date), txn.Amount, txn.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "move to account id")
	cmd.Flags().StringVar(&payeeID, "payee", "", "payee id")
	cmd.Flags().StringVar(&amount, "amount", "", "signed amount in major units")
	cmd.Flags().StringVar(&currency, "currency", "", "currency")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&memo, "memo", "", "memo")
	cmd.Flags().StringVar(&categoryID, "category", "", "category id")
	cmd.Flags().StringVar(&status, "status", "", "UNCLEARED, CLEARED or RECONCILED")
	return cmd
}

func (a *app) txnDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction and its transfer mirror",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.svc.Transaction.DeleteTransaction(cmd.Context(), args[0])
		},
	}
}
