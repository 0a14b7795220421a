package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/abrkgrbz/stocker-finance/internal/apperrors"
	"github.com/abrkgrbz/stocker-finance/internal/core/services"
	"github.com/abrkgrbz/stocker-finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForServiceError maps service sentinels to HTTP status codes. Handlers
// still pick their own messages for the cases they care about; this is the
// fallback for everything else.
func statusForServiceError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrRateNotFound),
		errors.Is(err, services.ErrNoPeriodDefined),
		errors.Is(err, services.ErrReconciliationNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrConcurrentUpdate),
		errors.Is(err, services.ErrDuplicateCode),
		errors.Is(err, services.ErrPeriodClosed),
		errors.Is(err, services.ErrPeriodTransition),
		errors.Is(err, services.ErrAccountNotPostable),
		errors.Is(err, services.ErrInvalidParent),
		errors.Is(err, services.ErrEntryNotPosted),
		errors.Is(err, services.ErrEntryAlreadyReversed),
		errors.Is(err, services.ErrCannotReverseReversal),
		errors.Is(err, services.ErrItemNotAcceptable),
		errors.Is(err, services.ErrAlreadyJournalized),
		errors.Is(err, services.ErrNothingToJournalize):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError logs and writes the error. Internal failures get a
// generic message so repository details never leak to clients.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, logMsg string) {
	status := statusForServiceError(err)
	if status == http.StatusInternalServerError {
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": logMsg})
		return
	}
	logger.Warn(logMsg, slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}

// requireTenant extracts the tenant scope or aborts with 400. TenantScope
// middleware sets it for every /api/v1 route, so a miss means a wiring bug.
func requireTenant(c *gin.Context, logger *slog.Logger) (string, bool) {
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok {
		logger.Error("Tenant ID not found in context")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing tenant scope"})
		return "", false
	}
	return tenantID, true
}
