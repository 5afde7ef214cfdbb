package main

import (
	"fmt"
	"strconv"

	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/spf13/cobra"
)

func (a *app) categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage category groups and categories",
	}
	cmd.AddCommand(a.groupCreateCmd(), a.categoryCreateCmd(), a.categoryListCmd())
	return cmd
}

func (a *app) groupCreateCmd() *cobra.Command {
	var req dto.CreateCategoryGroupRequest
	cmd := &cobra.Command{
		Use:   "group-create",
		Short: "Create a category group and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := dto.Validate(req); err != nil {
				return err
			}
			group, err := a.svc.Category.CreateCategoryGroup(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out(cmd), group.CategoryGroupID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.BudgetID, "budget", "", "budget id")
	cmd.Flags().StringVar(&req.Name, "name", "", "group name")
	_ = cmd.MarkFlagRequired("budget")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) categoryCreateCmd() *cobra.Command {
	var req dto.CreateCategoryRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := dto.Validate(req); err != nil {
				return err
			}
			category, err := a.svc.Category.CreateCategory(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out(cmd), category.CategoryID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.CategoryGroupID, "group", "", "category group id")
	cmd.Flags().StringVar(&req.Name, "name", "", "category name")
	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) categoryListCmd() *cobra.Command {
	var budgetID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the categories of a budget by group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			groups, err := a.svc.Category.ListCategoryGroups(ctx, budgetID)
			if err != nil {
				return err
			}
			categories, err := a.svc.Category.ListCategories(ctx, budgetID)
			if err != nil {
				return err
			}
			groupNames := make(map[string]string, len(groups))
			for _, g := range groups {
				groupNames[g.CategoryGroupID] = g.Name
			}
			t := newTable(a.out(cmd), "ID", "GROUP", "NAME", "LOCKED", "TRACKS")
			for _, c := range categories {
				t.row(c.CategoryID, groupNames[c.CategoryGroupID], c.Name, strconv.FormatBool(c.Locked), c.TrackingAccountID)
			}
			return t.flush()
		},
	}
	cmd.Flags().StringVar(&budgetID, "budget", "", "budget id")
	_ = cmd.MarkFlagRequired("budget")
	return cmd
}
