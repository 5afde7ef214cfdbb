package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/budget_ledger/internal/core/ports/services"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/SscSPs/budget_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService     portssvc.AccountSvcFacade
	transactionService portssvc.TransactionSvcFacade
}

func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, transactionService portssvc.TransactionSvcFacade) {
	h := &accountHandler{
		accountService:     accountService,
		transactionService: transactionService,
	}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("/:accountID", h.getAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
		accounts.POST("/:accountID/cascade", h.ensureCascadeComplete)
		accounts.GET("/:accountID/verify", h.verifyBalance)
		accounts.GET("/:accountID/transactions", h.listTransactions)
	}
}

// respondCascadeError reports an account that was stored but whose creation cascade
// did not finish, so the client can retry POST /accounts/{id}/cascade.
func respondCascadeError(c *gin.Context, account *domain.Account, err error, fallback string) {
	body := dto.ErrorResponse{}
	if account != nil && errors.Is(err, apperrors.ErrCascadeIncomplete) {
		body.AccountID = account.AccountID
	}
	respondErrorBody(c, err, fallback, body)
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates an account and its transfer payee; credit cards also get a payment tracking category.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 404 {object} dto.ErrorResponse "Budget not found"
// @Failure 503 {object} dto.ErrorResponse "Account stored but its creation cascade must be re-run"
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondCascadeError(c, account, err, "Failed to create account")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes an account no transaction references, with its transfer payee and tracking category.
// @Tags accounts
// @Param   accountID path string true "Account ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Account still referenced by transactions"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	if err := h.accountService.DeleteAccount(c.Request.Context(), c.Param("accountID")); err != nil {
		respondError(c, err, "Failed to delete account")
		return
	}
	c.Status(http.StatusNoContent)
}

// ensureCascadeComplete godoc
// @Summary Complete an account's creation cascade
// @Description Idempotently creates whatever the account's creation cascade left missing.
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 503 {object} dto.ErrorResponse "Cascade still incomplete"
// @Router /accounts/{accountID}/cascade [post]
func (h *accountHandler) ensureCascadeComplete(c *gin.Context) {
	account, err := h.accountService.EnsureCascadeComplete(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondCascadeError(c, account, err, "Failed to complete account cascade")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// verifyBalance godoc
// @Summary Verify an account's balances
// @Description Recomputes balances from the account's transactions. Drift is reported, not repaired.
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.VerifyBalanceResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Stored balances drifted"
// @Router /accounts/{accountID}/verify [get]
func (h *accountHandler) verifyBalance(c *gin.Context) {
	account, err := h.accountService.VerifyAccountBalance(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, err, "Account balance verification failed")
		return
	}
	c.JSON(http.StatusOK, dto.VerifyBalanceResponse{
		AccountID:  account.AccountID,
		Consistent: true,
		Balance:    account.Balance.Amount(),
		Cleared:    account.Cleared.Amount(),
		Uncleared:  account.Uncleared.Amount(),
	})
}

// listTransactions godoc
// @Summary List transactions for an account
// @Description Retrieves a page of the account's transactions, newest first.
// @Tags transactions
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /accounts/{accountID}/transactions [get]
func (h *accountHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	txns, next, err := h.transactionService.ListTransactionsByAccount(c.Request.Context(), c.Param("accountID"), params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    next,
	})
}
