package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"finaily/internal/news"
	"finaily/internal/quota"
	"finaily/internal/service"
	"finaily/internal/summarizer"
)

// DigestProvider is the slice of the digest service the handler calls.
type DigestProvider interface {
	GetDigest(ctx context.Context, params service.GetDigestParams) (*service.DigestView, error)
}

type NewsHandler struct {
	Service  DigestProvider
	Logger   *zap.Logger
	MaxLimit int
}

func (h *NewsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/news")
	group.GET("/:symbol", h.getDigest)
}

// @Summary Ticker news digest
// @Description Returns the AI digest for a ticker, generating one when no fresh digest exists.
// @Tags news
// @Param symbol path string true "Ticker symbol"
// @Param lang query string false "Summary language (ko|en)"
// @Param limit query int false "Max articles to consider"
// @Success 200 {object} service.DigestView
// @Failure 404 {object} errorResponse
// @Failure 429 {object} errorResponse
// @Failure 502 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /api/v1/news/{symbol} [get]
func (h *NewsHandler) getDigest(c *gin.Context) {
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		Error(c, http.StatusBadRequest, CodeBadRequest, "symbol required")
		return
	}

	maxLimit := h.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 20
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			Error(c, http.StatusBadRequest, CodeBadRequest, "limit must be a positive integer")
			return
		}
		if parsed > maxLimit {
			parsed = maxLimit
		}
		limit = parsed
	}

	view, err := h.Service.GetDigest(c.Request.Context(), service.GetDigestParams{
		Symbol: symbol,
		Lang:   strings.TrimSpace(c.Query("lang")),
		Limit:  limit,
		UserID: c.GetString(ContextUserID),
		Origin: c.ClientIP(),
	})
	if err != nil {
		h.writeError(c, symbol, err)
		return
	}
	Ok(c, view)
}

func (h *NewsHandler) writeError(c *gin.Context, symbol string, err error) {
	switch {
	case errors.Is(err, service.ErrTickerNotFound):
		Error(c, http.StatusNotFound, CodeTickerNotFound, "unknown ticker symbol")
	case errors.Is(err, service.ErrUnsupportedLanguage):
		Error(c, http.StatusBadRequest, CodeBadRequest, "unsupported language")
	case errors.Is(err, quota.ErrDailyLimit):
		Error(c, http.StatusTooManyRequests, CodeRateLimited, "daily guest limit reached")
	case errors.Is(err, news.ErrSourceUnavailable):
		Error(c, http.StatusBadGateway, CodeSourceUnavailable, "news sources unavailable")
	case errors.Is(err, summarizer.ErrBadFormat):
		Error(c, http.StatusBadGateway, CodeSummarizationFormat, "summarizer returned an unusable digest")
	case errors.Is(err, summarizer.ErrUnavailable):
		Error(c, http.StatusServiceUnavailable, CodeSummarizationFailed, "summarization temporarily unavailable")
	default:
		if h.Logger != nil {
			h.Logger.Error("digest request failed",
				zap.String("symbol", symbol),
				zap.Error(err),
			)
		}
		Error(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}
