package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nestegg-app/nestegg_backend/internal/apperrors"
	portssvc "github.com/nestegg-app/nestegg_backend/internal/core/ports/services"
	"github.com/nestegg-app/nestegg_backend/internal/dto"
	"github.com/nestegg-app/nestegg_backend/internal/middleware"
)

const defaultNetWorthMonths = 12

// netWorthHandler exposes the reconstructed monthly net worth series.
type netWorthHandler struct {
	netWorthService portssvc.NetWorthSvc
}

func registerNetWorthRoutes(rg *gin.RouterGroup, ns portssvc.NetWorthSvc) {
	h := &netWorthHandler{netWorthService: ns}
	rg.GET("/users/:userID/reports/networth", h.getNetWorthSeries)
}

func (h *netWorthHandler) getNetWorthSeries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	months := defaultNetWorthMonths
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 120 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'months' must be an integer between 1 and 120"})
			return
		}
		months = parsed
	}

	points, err := h.netWorthService.NetWorthSeries(c.Request.Context(), userID, months)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to build net worth series", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build net worth series"})
		return
	}

	c.JSON(http.StatusOK, dto.ToNetWorthSeriesResponse(points))
}
