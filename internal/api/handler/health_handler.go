package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/openshelf/library-system/internal/core/ports"
)

// HealthHandler handles GET /health and GET /health/ready.
type HealthHandler struct {
	pool  *pgxpool.Pool
	redis *redis.Client
	stats ports.StatsRepository
}

func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client, stats ports.StatsRepository) *HealthHandler {
	return &HealthHandler{pool: pool, redis: rdb, stats: stats}
}

type healthResponse struct {
	Status     string            `json:"status"`
	Database   string            `json:"database"`
	Statistics *ports.Statistics `json:"statistics,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Health reports service status plus entity counts.
//
// @Summary      Health check with statistics
// @Tags         health
// @Produce      json
// @Success      200  {object}  healthResponse
// @Failure      503  {object}  healthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:    "healthy",
		Database:  "connected",
		Timestamp: time.Now().UTC(),
	}

	if err := h.pool.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}

	stats, err := h.stats.Collect(ctx)
	if err != nil {
		resp.Status = "degraded"
		return c.JSON(http.StatusOK, resp)
	}
	resp.Statistics = stats

	return c.JSON(http.StatusOK, resp)
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness checks Postgres and Redis connectivity before declaring the
// service ready.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if err := h.pool.Ping(ctx); err != nil {
		deps["postgres"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["postgres"] = dependencyStatus{Status: "ok"}
	}

	if _, err := h.redis.Ping(ctx).Result(); err != nil {
		deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["redis"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
