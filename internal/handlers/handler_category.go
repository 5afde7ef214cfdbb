package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/budget_ledger/internal/core/ports/services"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type categoryHandler struct {
	categoryService portssvc.CategorySvcFacade
}

func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvcFacade) {
	h := &categoryHandler{categoryService: categoryService}

	rg.POST("/category-groups", h.createCategoryGroup)
	rg.POST("/categories", h.createCategory)
	rg.GET("/categories/:categoryID", h.getCategory)
}

// createCategoryGroup godoc
// @Summary Create a category group
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   group body dto.CreateCategoryGroupRequest true "Group details"
// @Success 201 {object} dto.CategoryGroupResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or reserved name"
// @Failure 409 {object} dto.ErrorResponse "Group name already used in the budget"
// @Router /category-groups [post]
func (h *categoryHandler) createCategoryGroup(c *gin.Context) {
	var req dto.CreateCategoryGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	group, err := h.categoryService.CreateCategoryGroup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create category group")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCategoryGroupResponse(group))
}

// createCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or locked group"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	category, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// getCategory godoc
// @Summary Get a category by ID
// @Tags categories
// @Produce  json
// @Param   categoryID path string true "Category ID"
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Router /categories/{categoryID} [get]
func (h *categoryHandler) getCategory(c *gin.Context) {
	category, err := h.categoryService.GetCategoryByID(c.Request.Context(), c.Param("categoryID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve category")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponse(category))
}
