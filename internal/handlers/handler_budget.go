package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/budget_ledger/internal/core/ports/services"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/SscSPs/budget_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// budgetHandler handles HTTP requests related to budgets and the entities listed under them.
type budgetHandler struct {
	budgetService   portssvc.BudgetSvcFacade
	accountService  portssvc.AccountSvcFacade
	payeeService    portssvc.PayeeSvcFacade
	categoryService portssvc.CategorySvcFacade
}

func registerBudgetRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &budgetHandler{
		budgetService:   services.Budget,
		accountService:  services.Account,
		payeeService:    services.Payee,
		categoryService: services.Category,
	}

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/:budgetID", h.getBudget)
		budgets.DELETE("/:budgetID", h.deleteBudget)
		budgets.GET("/:budgetID/accounts", h.listAccounts)
		budgets.GET("/:budgetID/payees", h.listPayees)
		budgets.GET("/:budgetID/category-groups", h.listCategoryGroups)
		budgets.GET("/:budgetID/categories", h.listCategories)
	}
}

// createBudget godoc
// @Summary Create a new budget
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 500 {object} dto.ErrorResponse "Failed to create budget"
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create budget")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Budget created", slog.String("budget_id", budget.BudgetID))
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// listBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce  json
// @Success 200 {array} dto.BudgetResponse
// @Failure 500 {object} dto.ErrorResponse "Failed to list budgets"
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	budgets, err := h.budgetService.ListBudgets(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBudgetResponse(budgets))
}

// getBudget godoc
// @Summary Get a budget by ID
// @Tags budgets
// @Produce  json
// @Param   budgetID path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} dto.ErrorResponse "Budget not found"
// @Router /budgets/{budgetID} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), c.Param("budgetID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// deleteBudget godoc
// @Summary Delete a budget
// @Description Deletes a budget that owns no accounts, together with its payees and categories.
// @Tags budgets
// @Param   budgetID path string true "Budget ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Budget still owns accounts"
// @Failure 404 {object} dto.ErrorResponse "Budget not found"
// @Router /budgets/{budgetID} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	if err := h.budgetService.DeleteBudget(c.Request.Context(), c.Param("budgetID")); err != nil {
		respondError(c, err, "Failed to delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}

// listAccounts godoc
// @Summary List the accounts of a budget
// @Tags accounts
// @Produce  json
// @Param   budgetID path string true "Budget ID"
// @Success 200 {array} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse "Budget not found"
// @Router /budgets/{budgetID}/accounts [get]
func (h *budgetHandler) listAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("budgetID"))
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// listPayees godoc
// @Summary List the payees of a budget
// @Tags payees
// @Produce  json
// @Param   budgetID path string true "Budget ID"
// @Success 200 {array} dto.PayeeResponse
// @Failure 404 {object} dto.ErrorResponse "Budget not found"
// @Router /budgets/{budgetID}/payees [get]
func (h *budgetHandler) listPayees(c *gin.Context) {
	payees, err := h.payeeService.ListPayees(c.Request.Context(), c.Param("budgetID"))
	if err != nil {
		respondError(c, err, "Failed to list payees")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPayeeResponse(payees))
}

// listCategoryGroups godoc
// @Summary List the category groups of a budget
// @Tags categories
// @Produce  json
// @Param   budgetID path string true "Budget ID"
// @Success 200 {array} dto.CategoryGroupResponse
// @Failure 404 {object} dto.ErrorResponse "Budget not found"
// @Router /budgets/{budgetID}/category-groups [get]
func (h *budgetHandler) listCategoryGroups(c *gin.Context) {
	groups, err := h.categoryService.ListCategoryGroups(c.Request.Context(), c.Param("budgetID"))
	if err != nil {
		respondError(c, err, "Failed to list category groups")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCategoryGroupResponse(groups))
}

// listCategories godoc
// @Summary List the categories of a budget
// @Tags categories
// @Produce  json
// @Param   budgetID path string true "Budget ID"
// @Success 200 {array} dto.CategoryResponse
// @Failure 404 {object} dto.ErrorResponse "Budget not found"
// @Router /budgets/{budgetID}/categories [get]
func (h *budgetHandler) listCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context(), c.Param("budgetID"))
	if err != nil {
		respondError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCategoryResponse(categories))
}
