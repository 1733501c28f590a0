// Package handler serves platform level endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *sql.DB and *redis.Client wrappers.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthHandler answers /healthz. With no dependencies registered it only reports liveness.
type HealthHandler struct {
	deps    map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler registers named dependencies that are pinged on every GET.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps, timeout: 2 * time.Second}
}

// Health handles GET, HEAD and OPTIONS on /healthz.
func (h *HealthHandler) Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
		return
	case http.MethodHead:
		c.Status(h.status(c.Request.Context(), nil))
		return
	}

	checks := make(map[string]string, len(h.deps))
	code := h.status(c.Request.Context(), checks)
	overall := "ok"
	if code != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(code, gin.H{"status": overall, "checks": checks})
}

func (h *HealthHandler) status(ctx context.Context, checks map[string]string) int {
	code := http.StatusOK
	for name, p := range h.deps {
		pctx, cancel := context.WithTimeout(ctx, h.timeout)
		err := p.PingContext(pctx)
		cancel()
		if err != nil {
			slog.Warn("health check failed", "dependency", name, "error", err)
			code = http.StatusServiceUnavailable
			if checks != nil {
				checks[name] = "down"
			}
			continue
		}
		if checks != nil {
			checks[name] = "ok"
		}
	}
	return code
}
