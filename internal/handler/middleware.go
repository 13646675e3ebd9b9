package handler

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"finaily/internal/auth"
)

// Context keys set by the identity middleware.
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
)

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// IdentityMiddleware resolves an optional bearer token. A missing header means
// a guest request; a present-but-invalid token is rejected rather than
// silently downgraded to guest.
func IdentityMiddleware(verifier auth.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == header || token == "" {
			Error(c, http.StatusUnauthorized, CodeUnauthorized, "malformed authorization header")
			c.Abort()
			return
		}
		claims, err := verifier.Verify(token)
		if err != nil {
			Error(c, http.StatusUnauthorized, CodeUnauthorized, "invalid token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// RequireUser gates endpoints that only make sense for authenticated callers.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserID) == "" {
			Error(c, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ipRateLimiter keeps one token bucket per client IP. Buckets live for the
// process lifetime; the endpoint it guards is low-cardinality enough that
// eviction is not worth the bookkeeping.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.limiters == nil {
		l.limiters = make(map[string]*rate.Limiter)
	}
	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware allows ratePerMinute requests per client IP with the
// given burst.
func RateLimitMiddleware(ratePerMinute, burst int) gin.HandlerFunc {
	if ratePerMinute <= 0 {
		ratePerMinute = 30
	}
	if burst <= 0 {
		burst = ratePerMinute
	}
	limiter := &ipRateLimiter{
		limit: rate.Limit(float64(ratePerMinute) / 60.0),
		burst: burst,
	}
	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			Error(c, http.StatusTooManyRequests, CodeRateLimited, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
