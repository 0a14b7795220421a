package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	portssvc "github.com/abrkgrbz/stocker-finance/internal/core/ports/services"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
	"github.com/abrkgrbz/stocker-finance/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests for exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(exchangeRateService portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{exchangeRateService: exchangeRateService}
}

// createExchangeRate godoc
// @Summary Record an exchange rate
// @Description Records a dated buy/sell/average rate for a currency pair
// @Tags exchange-rates
// @Accept json
// @Produce json
// @Param rate body dto.CreateExchangeRateRequest true "Exchange rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Rate for pair and date already exists"
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}
	creatorUserID, _ := middleware.GetActorIDFromContext(c)

	rate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), tenantID, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create exchange rate")
		return
	}

	logger.Info("Exchange rate created",
		slog.String("source", rate.SourceCurrency),
		slog.String("target", rate.TargetCurrency),
		slog.Time("rate_date", rate.RateDate))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// resolveRate godoc
// @Summary Resolve the applicable rate for a pair and date
// @Description Returns the rate in effect on the date, falling back to the most recent prior rate within the configured window
// @Tags exchange-rates
// @Produce json
// @Param source query string true "Source currency code"
// @Param target query string true "Target currency code"
// @Param onDate query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 404 {object} map[string]string "No applicable rate"
// @Router /exchange-rates/resolve [get]
func (h *exchangeRateHandler) resolveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	source := c.Query("source")
	target := c.Query("target")
	onDate, err := time.Parse("2006-01-02", c.Query("onDate"))
	if source == "" || target == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source, target and onDate (YYYY-MM-DD) are required"})
		return
	}

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}

	rate, err := h.exchangeRateService.GetRate(c.Request.Context(), tenantID, source, target, onDate)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve exchange rate")
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Re-denominates an amount using the rate applicable on the given date
// @Tags exchange-rates
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertRequest true "Conversion details"
// @Success 200 {object} dto.ConvertResponse
// @Failure 404 {object} map[string]string "No applicable rate"
// @Router /exchange-rates/convert [post]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}

	money := domain.NewMoney(req.Amount, req.SourceCurrency)
	converted, err := h.exchangeRateService.Convert(c.Request.Context(), tenantID, money, req.TargetCurrency, req.OnDate)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to convert amount")
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		Amount:       converted.Amount,
		CurrencyCode: converted.CurrencyCode,
		RateDate:     req.OnDate,
	})
}

// listRates godoc
// @Summary List recorded rates for a currency pair
// @Tags exchange-rates
// @Produce json
// @Param source query string true "Source currency code"
// @Param target query string true "Target currency code"
// @Param limit query int false "Maximum rates to return"
// @Success 200 {array} dto.ExchangeRateResponse
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	source := c.Query("source")
	target := c.Query("target")
	if source == "" || target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source and target are required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	tenantID, ok := requireTenant(c, logger)
	if !ok {
		return
	}

	rates, err := h.exchangeRateService.ListRates(c.Request.Context(), tenantID, source, target, limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list exchange rates")
		return
	}

	resp := make([]dto.ExchangeRateResponse, len(rates))
	for i := range rates {
		resp[i] = dto.ToExchangeRateResponse(&rates[i])
	}
	c.JSON(http.StatusOK, resp)
}

// registerExchangeRateRoutes registers exchange rate specific routes
func registerExchangeRateRoutes(group *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	rates := group.Group("/exchange-rates")
	{
		rates.POST("", h.createExchangeRate)
		rates.GET("", h.listRates)
		rates.GET("/resolve", h.resolveRate)
		rates.POST("/convert", h.convert)
	}
}
