package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nestegg-app/nestegg_backend/internal/apperrors"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
	"github.com/nestegg-app/nestegg_backend/internal/dto"
	"github.com/nestegg-app/nestegg_backend/internal/middleware"
)

// backfillHandler exposes the historical rate backfill for one user.
type backfillHandler struct {
	backfillService portssvc.RateBackfillSvc
}

func registerBackfillRoutes(rg *gin.RouterGroup, bs portssvc.RateBackfillSvc) {
	h := &backfillHandler{backfillService: bs}
	rg.POST("/users/:userID/rates/backfill", h.backfillRates)
}

// backfillRates loads historical daily rates for every currency pair the user
// needs. The body is optional; when present it may restrict the accounts
// considered. Idempotent: covered pairs are skipped.
func (h *backfillHandler) backfillRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	var req dto.BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	summary, err := h.backfillService.BackfillForUser(c.Request.Context(), userID, req.AccountIDs)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Rate backfill failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to backfill rates"})
		return
	}

	logger.Info("Rate backfill completed",
		slog.String("user_id", userID),
		slog.Int("total_pairs", summary.TotalPairs),
		slog.Int("rates_loaded", summary.TotalRatesLoaded),
	)
	c.JSON(http.StatusOK, dto.ToBackfillSummaryResponse(summary))
}
