package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const healthTimeout = 3 * time.Second

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// QueueLen reports how many analysis jobs are waiting
type QueueLen interface {
	Len() int
}

// Health reports dependency reachability
type Health struct {
	environment string
	store       Pinger
	storage     Pinger
	queue       QueueLen
	logger      *zap.Logger
}

// NewHealthHandler creates a new health handler. Nil dependencies are skipped.
func NewHealthHandler(environment string, store, storage Pinger, queue QueueLen, logger *zap.Logger) *Health {
	return &Health{
		environment: environment,
		store:       store,
		storage:     storage,
		queue:       queue,
		logger:      logger,
	}
}

// Check handles GET /health
// @Summary      Health check
// @Description  Reports result store and object storage reachability
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "All dependencies reachable"
// @Failure      503  {object}  map[string]interface{}  "A dependency is unreachable"
// @Router       /health [get]
func (h *Health) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	checks := map[string]string{}
	probe := func(name string, p Pinger) {
		if p == nil {
			return
		}
		if err := p.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			if h.logger != nil {
				h.logger.Warn("⚠️ Health check failed",
					zap.String("dependency", name),
					zap.Error(err),
				)
			}
			return
		}
		checks[name] = "ok"
	}
	probe("store", h.store)
	probe("storage", h.storage)

	body := map[string]interface{}{
		"status":      "ok",
		"environment": h.environment,
		"checks":      checks,
		"time":        time.Now().UTC().Format(time.RFC3339),
	}
	if h.queue != nil {
		body["queued"] = h.queue.Len()
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	return c.JSON(status, body)
}
