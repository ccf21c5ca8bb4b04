package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nestegg-app/nestegg_backend/internal/apperrors"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
	"github.com/nestegg-app/nestegg_backend/internal/dto"
	"github.com/nestegg-app/nestegg_backend/internal/middleware"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	rateService    portssvc.ExchangeRateReaderSvc
	refreshService portssvc.RateRefreshSvc
}

func newExchangeRateHandler(rs portssvc.ExchangeRateReaderSvc, refresh portssvc.RateRefreshSvc) *exchangeRateHandler {
	return &exchangeRateHandler{
		rateService:    rs,
		refreshService: refresh,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rs portssvc.ExchangeRateReaderSvc, refresh portssvc.RateRefreshSvc) {
	h := newExchangeRateHandler(rs, refresh)

	rates := rg.Group("/rates")
	{
		rates.GET("", h.getRates)
		rates.POST("/refresh", h.refreshRates)
	}
}

// getRates returns the latest rate for ?from=&to=, or the stored daily series
// when ?series=true.
func (h *exchangeRateHandler) getRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := strings.ToUpper(c.Query("from"))
	to := strings.ToUpper(c.Query("to"))
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameters 'from' and 'to' are required"})
		return
	}

	if c.Query("series") == "true" {
		series, err := h.rateService.ListRatesForPair(c.Request.Context(), from, to)
		if err != nil {
			if errors.Is(err, apperrors.ErrValidation) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logger.Error("Failed to list rates", slog.String("from", from), slog.String("to", to), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rates"})
			return
		}
		c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(series))
		return
	}

	rate, err := h.rateService.GetExchangeRate(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No exchange rate found for pair " + from + "/" + to})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get exchange rate", slog.String("from", from), slog.String("to", to), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exchange rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// refreshRates triggers a synchronous spot-rate refresh for every in-use pair.
// Per-pair failures are reported in the summary, not as an HTTP error.
func (h *exchangeRateHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.refreshService.RefreshAll(c.Request.Context())
	if err != nil {
		logger.Error("Rate refresh failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh rates"})
		return
	}

	logger.Info("Rate refresh completed",
		slog.Int("total_pairs", summary.TotalPairs),
		slog.Int("updated", summary.Updated),
		slog.Int("failed", summary.Failed),
	)
	c.JSON(http.StatusOK, dto.ToRefreshSummaryResponse(summary))
}
