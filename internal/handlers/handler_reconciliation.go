package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/abrkgrbz/stocker-finance/internal/core/ports/services"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
	"github.com/abrkgrbz/stocker-finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler handles HTTP requests for bank reconciliation.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(reconciliationService portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: reconciliationService}
}

// reconcile godoc
// @Summary Reconcile a bank account against a statement
// @Description Matches imported statement items against posted ledger lines and persists the result
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param reconciliation body dto.ReconcileRequest true "Statement window and items"
// @Success 201 {object} dto.ReconciliationResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Router /reconciliations [post]
func (h *reconciliationHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for reconcile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}
	userID, _ := middleware.GetActorIDFromContext(c)

	recon, err := h.reconciliationService.ReconcileBankAccount(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reconcile bank account")
		return
	}

	logger.Info("Reconciliation completed",
		slog.String("reconciliation_id", recon.ReconciliationID),
		slog.Bool("is_reconciled", recon.IsReconciled))
	c.JSON(http.StatusCreated, dto.ToReconciliationResponse(recon))
}

// getReconciliation godoc
// @Summary Get a reconciliation with its items
// @Tags reconciliations
// @Produce json
// @Param reconciliationID path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Router /reconciliations/{reconciliationID} [get]
func (h *reconciliationHandler) getReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("reconciliationID")

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}

	recon, err := h.reconciliationService.GetReconciliation(c.Request.Context(), tenantID, reconciliationID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve reconciliation")
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(recon))
}

// acceptItem godoc
// @Summary Accept an unmatched item as a known difference
// @Tags reconciliations
// @Produce json
// @Param reconciliationID path string true "Reconciliation ID"
// @Param itemID path string true "Item ID"
// @Success 204 "Item accepted"
// @Failure 404 {object} map[string]string "Reconciliation or item not found"
// @Failure 409 {object} map[string]string "Item is not unmatched"
// @Router /reconciliations/{reconciliationID}/items/{itemID}/accept [post]
func (h *reconciliationHandler) acceptItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("reconciliationID")
	itemID := c.Param("itemID")

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}
	userID, _ := middleware.GetActorIDFromContext(c)

	if err := h.reconciliationService.AcceptUnmatchedItem(c.Request.Context(), tenantID, reconciliationID, itemID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to accept item")
		return
	}

	logger.Info("Reconciliation item accepted",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("item_id", itemID))
	c.Status(http.StatusNoContent)
}

// postAdjustment godoc
// @Summary Post the residual difference as an adjustment entry
// @Description Raises a journal entry for the balance difference against the configured gain/loss account
// @Tags reconciliations
// @Produce json
// @Param reconciliationID path string true "Reconciliation ID"
// @Success 201 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Failure 409 {object} map[string]string "Nothing to journalize or already journalized"
// @Router /reconciliations/{reconciliationID}/adjustment [post]
func (h *reconciliationHandler) postAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reconciliationID := c.Param("reconciliationID")

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}
	userID, _ := middleware.GetActorIDFromContext(c)

	entry, err := h.reconciliationService.PostAdjustmentEntry(c.Request.Context(), tenantID, reconciliationID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post adjustment entry")
		return
	}

	logger.Info("Adjustment entry posted",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// reconciliationStatus godoc
// @Summary Summarize the latest reconciliation of a bank account
// @Tags reconciliations
// @Produce json
// @Param bankAccountID query string true "Bank ledger account ID"
// @Param periodStart query string true "Window start (YYYY-MM-DD)"
// @Param periodEnd query string true "Window end (YYYY-MM-DD)"
// @Success 200 {object} dto.ReconciliationStatusResponse
// @Router /reconciliations/status [get]
func (h *reconciliationHandler) reconciliationStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	bankAccountID := c.Query("bankAccountID")
	periodStart, errStart := time.Parse("2006-01-02", c.Query("periodStart"))
	periodEnd, errEnd := time.Parse("2006-01-02", c.Query("periodEnd"))
	if bankAccountID == "" || errStart != nil || errEnd != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bankAccountID, periodStart and periodEnd (YYYY-MM-DD) are required"})
		return
	}

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}

	status, err := h.reconciliationService.ReconciliationStatus(c.Request.Context(), tenantID, bankAccountID, periodStart, periodEnd)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve reconciliation status")
		return
	}

	c.JSON(http.StatusOK, status)
}

// registerReconciliationRoutes registers reconciliation specific routes
func registerReconciliationRoutes(group *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	recons := group.Group("/reconciliations")
	{
		recons.POST("", h.reconcile)
		recons.GET("/status", h.reconciliationStatus)
		recons.GET("/:reconciliationID", h.getReconciliation)
		recons.POST("/:reconciliationID/items/:itemID/accept", h.acceptItem)
		recons.POST("/:reconciliationID/adjustment", h.postAdjustment)
	}
}
