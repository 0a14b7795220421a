package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/abrkgrbz/stocker-finance/internal/core/ports/services"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
	"github.com/abrkgrbz/stocker-finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for ledger reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

// getTrialBalance godoc
// @Summary Build the trial balance of a period
// @Description Per-account debit/credit/opening/closing totals grouped by account code prefix
// @Tags reports
// @Produce json
// @Param periodID path string true "Period ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Router /reports/trial-balance/{periodID} [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}

	tb, err := h.reportingService.TrialBalance(c.Request.Context(), tenantID, periodID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build trial balance")
		return
	}

	c.JSON(http.StatusOK, tb)
}

// getBalanceAsOf godoc
// @Summary Get the nature-signed balance of an account as of a date
// @Tags reports
// @Produce json
// @Param accountID path string true "Account ID"
// @Param asOf query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /reports/accounts/{accountID}/balance [get]
func (h *reportingHandler) getBalanceAsOf(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	asOf, err := time.Parse("2006-01-02", c.Query("asOf"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asOf (YYYY-MM-DD) is required"})
		return
	}

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}

	balance, err := h.reportingService.AccountBalanceAsOf(c.Request.Context(), tenantID, accountID, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve balance")
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID:    accountID,
		Balance:      balance.Amount,
		CurrencyCode: balance.CurrencyCode,
	})
}

// registerReportingRoutes registers reporting specific routes
func registerReportingRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance/:periodID", h.getTrialBalance)
		reports.GET("/accounts/:accountID/balance", h.getBalanceAsOf)
	}
}
