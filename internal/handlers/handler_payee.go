package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/budget_ledger/internal/core/ports/services"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type payeeHandler struct {
	payeeService portssvc.PayeeSvcFacade
}

func registerPayeeRoutes(rg *gin.RouterGroup, payeeService portssvc.PayeeSvcFacade) {
	h := &payeeHandler{payeeService: payeeService}

	payees := rg.Group("/payees")
	{
		payees.POST("", h.createPayee)
		payees.GET("/:payeeID", h.getPayee)
	}
}

// createPayee godoc
// @Summary Create a payee
// @Description Creates a regular payee. Transfer payees are created with their accounts.
// @Tags payees
// @Accept  json
// @Produce  json
// @Param   payee body dto.CreatePayeeRequest true "Payee details"
// @Success 201 {object} dto.PayeeResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 404 {object} dto.ErrorResponse "Budget not found"
// @Router /payees [post]
func (h *payeeHandler) createPayee(c *gin.Context) {
	var req dto.CreatePayeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	payee, err := h.payeeService.CreatePayee(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create payee")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPayeeResponse(payee))
}

// getPayee godoc
// @Summary Get a payee by ID
// @Tags payees
// @Produce  json
// @Param   payeeID path string true "Payee ID"
// @Success 200 {object} dto.PayeeResponse
// @Failure 404 {object} dto.ErrorResponse "Payee not found"
// @Router /payees/{payeeID} [get]
func (h *payeeHandler) getPayee(c *gin.Context) {
	payee, err := h.payeeService.GetPayeeByID(c.Request.Context(), c.Param("payeeID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve payee")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayeeResponse(payee))
}
