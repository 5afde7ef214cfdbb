package dto

import "github.com/SscSPs/budget_ledger/internal/core/domain"

// CreateCategoryGroupRequest defines the data needed to create a category group.
type CreateCategoryGroupRequest struct {
	BudgetID string `json:"budgetID" binding:"required"`
	Name     string `json:"name" binding:"required,max=255"`
}

// CreateCategoryRequest defines the data needed to create a category in a group.
type CreateCategoryRequest struct {
	CategoryGroupID string `json:"categoryGroupID" binding:"required"`
	Name            string `json:"name" binding:"required,max=255"`
}

// CategoryGroupResponse defines the data returned for a category group.
type CategoryGroupResponse struct {
	CategoryGroupID string `json:"categoryGroupID"`
	BudgetID        string `json:"budgetID"`
	Name            string `json:"name"`
	Locked          bool   `json:"locked"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID        string `json:"categoryID"`
	BudgetID          string `json:"budgetID"`
	CategoryGroupID   string `json:"categoryGroupID"`
	Name              string `json:"name"`
	Locked            bool   `json:"locked"`
	TrackingAccountID string `json:"trackingAccountID,omitempty"`
}

func ToCategoryGroupResponse(g *domain.CategoryGroup) CategoryGroupResponse {
	return CategoryGroupResponse{
		CategoryGroupID: g.CategoryGroupID,
		BudgetID:        g.BudgetID,
		Name:            g.Name,
		Locked:          g.Locked,
	}
}

func ToListCategoryGroupResponse(groups []domain.CategoryGroup) []CategoryGroupResponse {
	res := make([]CategoryGroupResponse, len(groups))
	for i := range groups {
		res[i] = ToCategoryGroupResponse(&groups[i])
	}
	return res
}

func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:        c.CategoryID,
		BudgetID:          c.BudgetID,
		CategoryGroupID:   c.CategoryGroupID,
		Name:              c.Name,
		Locked:            c.Locked,
		TrackingAccountID: c.TrackingAccountID,
	}
}

func ToListCategoryResponse(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i := range categories {
		res[i] = ToCategoryResponse(&categories[i])
	}
	return res
}
