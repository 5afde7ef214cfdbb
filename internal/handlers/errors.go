package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/budget_ledger/internal/apperrors"
	"github.com/SscSPs/budget_ledger/internal/dto"
	"github.com/SscSPs/budget_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error onto an HTTP status code.
// A transfer that failed on its counterpart is a conflict even when the cause
// was a currency mismatch or an incomplete cascade.
func statusFor(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrPartialTransferFailure):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrCascadeIncomplete):
		return http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrCurrencyMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrDuplicateCascadeEffect):
		return http.StatusConflict
	case errors.As(err, &appErr) && appErr.Code >= 400:
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// respondError writes the error response for err. Server errors hide their
// cause behind fallback; client errors carry the error text.
func respondError(c *gin.Context, err error, fallback string) {
	respondErrorBody(c, err, fallback, dto.ErrorResponse{})
}

func respondErrorBody(c *gin.Context, err error, fallback string, body dto.ErrorResponse) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_ = c.Error(err)

	status := statusFor(err)
	body.Error = err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.Error(fallback, slog.String("error", err.Error()))
		body.Error = fallback
	} else {
		logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, body)
}

// respondBindError reports a request that could not be decoded or failed its binding tags.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
}
