package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	redis "github.com/redis/go-redis/v9"

	"github.com/naomijub/MHTH/internal/logger"
)

// ServiceName is how callers address this service in health requests,
// with and without the package qualifier.
const (
	ServiceName     = "matchmaking"
	ServiceNameFull = "matchmaking.MatchmakingService"
	watchInterval   = 200 * time.Millisecond
)

// ServingStatus mirrors the grpc.health.v1 status codes.
type ServingStatus int32

const (
	StatusNotFound ServingStatus = iota
	StatusServing
	StatusNotServing
	StatusServiceUnknown
)

func (s ServingStatus) String() string {
	switch s {
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusServing:
		return "SERVING"
	case StatusNotServing:
		return "NOT_SERVING"
	case StatusServiceUnknown:
		return "SERVICE_UNKNOWN"
	}
	return "UNKNOWN"
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db           *redis.Client
	workerStatus func() bool
	startTime    time.Time
	version      string
}

// NewHealthHandler creates a new health handler. workerStatus reports
// whether the matchmaking loop is scheduled.
func NewHealthHandler(db *redis.Client, workerStatus func() bool, version string) *HealthHandler {
	return &HealthHandler{
		db:           db,
		workerStatus: workerStatus,
		startTime:    time.Now(),
		version:      version,
	}
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness returns simple alive status (for k8s liveness probe)
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness returns detailed health status (for k8s readiness probe)
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	// Store check
	if err := h.db.Ping(ctx).Err(); err != nil {
		checks["redis"] = "unhealthy: " + err.Error()
		allHealthy = false
	} else {
		checks["redis"] = "healthy"
	}

	if h.workerStatus() {
		checks["worker"] = "scheduled"
	} else {
		checks["worker"] = "not scheduled"
		allHealthy = false
	}

	// Memory check
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = formatMB(m.Alloc)

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// check resolves the serving status for a named service. Serving means
// the matchmaking loop is scheduled; no child processes are involved.
func (h *HealthHandler) check(service string) ServingStatus {
	if service != ServiceName && service != ServiceNameFull {
		return StatusNotFound
	}
	if !h.workerStatus() {
		return StatusNotServing
	}
	return StatusServing
}

// Check answers a one-shot health probe for the named service.
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": h.check(c.Query("service")).String()})
}

// Watch streams the serving status over a websocket at 5 Hz until the
// client disconnects.
func (h *HealthHandler) Watch(c *gin.Context) {
	service := c.Query("service")

	allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("health watch upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for range ticker.C {
		status := h.check(service)
		if err := conn.WriteJSON(gin.H{"status": status.String()}); err != nil {
			return
		}
	}
}

func formatMB(bytes uint64) string {
	mb := float64(bytes) / 1024 / 1024
	return fmt.Sprintf("%.2f", mb)
}
