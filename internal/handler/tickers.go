package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"finaily/internal/service"
)

type TickerHandler struct {
	Service *service.TickerService
	Logger  *zap.Logger

	// RateLimit guards the search endpoint; nil disables limiting.
	RateLimit gin.HandlerFunc
}

func (h *TickerHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/tickers")
	if h.RateLimit != nil {
		group.Use(h.RateLimit)
	}
	group.GET("/search", h.search)
}

// @Summary Ticker search
// @Description Resolves a query to matching equity symbols.
// @Tags tickers
// @Param q query string true "Symbol or company name"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorResponse
// @Router /api/v1/tickers/search [get]
func (h *TickerHandler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		Error(c, http.StatusBadRequest, CodeBadRequest, "q required")
		return
	}

	results, err := h.Service.Search(c.Request.Context(), query, 10)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("ticker search failed", zap.String("q", query), zap.Error(err))
		}
		Error(c, http.StatusBadGateway, CodeSourceUnavailable, "ticker search unavailable")
		return
	}
	Ok(c, gin.H{"results": results})
}
