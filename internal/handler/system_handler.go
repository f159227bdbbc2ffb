package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// SystemHandler exposes liveness and dependency health.
type SystemHandler struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(pool *pgxpool.Pool, rdb *redis.Client) *SystemHandler {
	return &SystemHandler{pool: pool, rdb: rdb}
}

// Health godoc
// GET /health
// Reports overall status plus per-dependency state. Answers 503 when any
// dependency is unreachable.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	postgres := "ok"
	if err := h.pool.Ping(ctx); err != nil {
		postgres = "unreachable"
	}

	redisState := "ok"
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		redisState = "unreachable"
	}

	status := http.StatusOK
	overall := "ok"
	if postgres != "ok" || redisState != "ok" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"postgres": postgres,
		"redis":    redisState,
	})
}
