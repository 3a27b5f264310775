package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Checker is anything that can report its own reachability.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// Handler exposes liveness and readiness endpoints.
// Database là dependency bắt buộc; cache chỉ làm status "degraded".
type Handler struct {
	version  string
	database Checker
	cache    Checker
	timeout  time.Duration
}

func NewHandler(version string, database, cache Checker) *Handler {
	return &Handler{
		version:  version,
		database: database,
		cache:    cache,
		timeout:  2 * time.Second,
	}
}

// Live - GET /health
func (h *Handler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready - GET /health/ready
func (h *Handler) Ready(c *gin.Context) {
	dbStatus := h.check(c.Request.Context(), "database", h.database)
	cacheStatus := h.check(c.Request.Context(), "cache", h.cache)

	status := "ok"
	statusCode := http.StatusOK
	switch {
	case dbStatus != "ok":
		status = "unavailable"
		statusCode = http.StatusServiceUnavailable
	case cacheStatus != "ok" && cacheStatus != "disabled":
		status = "degraded"
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
		},
	})
}

func (h *Handler) check(ctx context.Context, name string, checker Checker) string {
	if checker == nil {
		return "disabled"
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := checker.HealthCheck(ctx); err != nil {
		log.Warn().Err(err).Str("service", name).Msg("readiness check failed")
		return "error"
	}
	return "ok"
}
