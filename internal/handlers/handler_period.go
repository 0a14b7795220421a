package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	portssvc "github.com/abrkgrbz/stocker-finance/internal/core/ports/services"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
	"github.com/abrkgrbz/stocker-finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodHandler handles HTTP requests for accounting period lifecycle.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func newPeriodHandler(periodService portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: periodService}
}

// createPeriod godoc
// @Summary Create an accounting period
// @Description Creates a period continuing the gapless chain of its fiscal year
// @Tags periods
// @Accept json
// @Produce json
// @Param period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Period overlaps or breaks the chain"
// @Router /periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}
	creatorUserID, _ := middleware.GetActorIDFromContext(c)

	period, err := h.periodService.CreatePeriod(c.Request.Context(), tenantID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create period")
		return
	}

	logger.Info("Period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// getPeriod godoc
// @Summary Get an accounting period by ID
// @Tags periods
// @Produce json
// @Param periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Router /periods/{periodID} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}

	period, err := h.periodService.GetPeriodByID(c.Request.Context(), tenantID, periodID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve period")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List accounting periods of a fiscal year
// @Tags periods
// @Produce json
// @Param fiscalYear query int true "Fiscal year"
// @Success 200 {array} dto.PeriodResponse
// @Router /periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fiscalYear, err := strconv.Atoi(c.Query("fiscalYear"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fiscalYear is required"})
		return
	}

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), tenantID, fiscalYear)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list periods")
		return
	}

	resp := make([]dto.PeriodResponse, len(periods))
	for i := range periods {
		resp[i] = dto.ToPeriodResponse(&periods[i])
	}
	c.JSON(http.StatusOK, resp)
}

// transition runs one lifecycle operation with the audited reason.
func (h *periodHandler) transition(c *gin.Context, op func(ctx *gin.Context, tenantID, periodID, reason, userID string) (*domain.AccountingPeriod, error), logMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	var req dto.PeriodTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for period transition", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}
	userID, _ := middleware.GetActorIDFromContext(c)

	period, err := op(c, tenantID, periodID, req.Reason, userID)
	if err != nil {
		respondServiceError(c, logger, err, logMsg)
		return
	}

	logger.Info("Period status changed",
		slog.String("period_id", periodID),
		slog.String("status", string(period.Status)))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// softClosePeriod godoc
// @Summary Soft-close a period
// @Description Moves an open period to adjustment-only mode
// @Tags periods
// @Accept json
// @Produce json
// @Param periodID path string true "Period ID"
// @Param transition body dto.PeriodTransitionRequest true "Reason for the transition"
// @Success 200 {object} dto.PeriodResponse
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Router /periods/{periodID}/soft-close [post]
func (h *periodHandler) softClosePeriod(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, tenantID, periodID, reason, userID string) (*domain.AccountingPeriod, error) {
		return h.periodService.SoftClose(ctx.Request.Context(), tenantID, periodID, reason, userID)
	}, "Failed to soft-close period")
}

// hardClosePeriod godoc
// @Summary Hard-close a period
// @Description Terminally closes a period; no further postings of any kind
// @Tags periods
// @Accept json
// @Produce json
// @Param periodID path string true "Period ID"
// @Param transition body dto.PeriodTransitionRequest true "Reason for the transition"
// @Success 200 {object} dto.PeriodResponse
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Router /periods/{periodID}/hard-close [post]
func (h *periodHandler) hardClosePeriod(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, tenantID, periodID, reason, userID string) (*domain.AccountingPeriod, error) {
		return h.periodService.HardClose(ctx.Request.Context(), tenantID, periodID, reason, userID)
	}, "Failed to hard-close period")
}

// reopenPeriod godoc
// @Summary Reopen a soft-closed period
// @Description Moves a soft-closed period back to open; hard-closed periods need the elevated switch
// @Tags periods
// @Accept json
// @Produce json
// @Param periodID path string true "Period ID"
// @Param transition body dto.PeriodTransitionRequest true "Reason for the transition"
// @Success 200 {object} dto.PeriodResponse
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Router /periods/{periodID}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, tenantID, periodID, reason, userID string) (*domain.AccountingPeriod, error) {
		return h.periodService.Reopen(ctx.Request.Context(), tenantID, periodID, reason, userID)
	}, "Failed to reopen period")
}

// registerPeriodRoutes registers period specific routes
func registerPeriodRoutes(group *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := group.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:periodID", h.getPeriod)
		periods.POST("/:periodID/soft-close", h.softClosePeriod)
		periods.POST("/:periodID/hard-close", h.hardClosePeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
	}
}
