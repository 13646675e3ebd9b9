package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes surfaced to clients. Each maps to exactly one failure kind.
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeTickerNotFound      = "TICKER_NOT_FOUND"
	CodeRateLimited         = "RATE_LIMITED"
	CodeSourceUnavailable   = "SOURCE_UNAVAILABLE"
	CodeSummarizationFailed = "SUMMARIZATION_FAILED"
	CodeSummarizationFormat = "SUMMARIZATION_FORMAT"
	CodeInternal            = "INTERNAL"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func Ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Error: errorBody{Code: code, Message: message}})
}
