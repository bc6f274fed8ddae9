package http

import (
	"os"
	"strconv"
	"time"

	"github.com/naomijub/MHTH/internal/http/handlers"
	"github.com/naomijub/MHTH/internal/http/middleware"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the matchmaking surface: queue ingress, health
// probes and the streaming status endpoint. workerStatus reports
// whether the matchmaking loop is scheduled.
func RegisterRoutes(r *gin.Engine, db *redis.Client, oracle handlers.SkillOracle, version string, workerStatus func() bool) {
	h := handlers.NewHandler(db, oracle)
	healthHandler := handlers.NewHealthHandler(db, workerStatus, version)

	// read limits from env, with safe defaults
	apiRateLimit := 10
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	queueRateLimit := 6
	if v := os.Getenv("QUEUE_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			queueRateLimit = n
		}
	}
	queueRateWindow := time.Minute
	if v := os.Getenv("QUEUE_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			queueRateWindow = time.Duration(n) * time.Second
		}
	}

	// Health checks (no rate limiting)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	v1.GET("/health/check", healthHandler.Check)
	v1.POST("/queue/join",
		middleware.SessionAuth(),
		middleware.QueueRateLimit(queueRateLimit, queueRateWindow),
		h.JoinQueue,
	)

	// Status stream. Per IP because it runs before any session check.
	r.GET("/ws/health/watch", middleware.SimpleRateLimit(30, time.Minute), healthHandler.Watch)
}
