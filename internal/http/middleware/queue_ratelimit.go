package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// QueueRateLimit limits JoinQueue calls per player (not per IP) using
// Redis. Uses the user id from context, so SessionAuth must run first.
func QueueRateLimit(maxJoins int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			// Redis not configured, fail-open
			c.Next()
			return
		}

		userID := c.GetString("user_id")
		if userID == "" {
			// No user id means SessionAuth didn't run or failed
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := "queue_rl:" + userID + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		ctx := context.Background()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// On Redis error, fail-open
			c.Header("X-QueueRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		remaining := int64(maxJoins) - val
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-QueueRateLimit-Limit", strconv.Itoa(maxJoins))
		c.Header("X-QueueRateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if val > int64(maxJoins) {
			RLBlocked.WithLabelValues("queue:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "queue rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("queue:" + c.FullPath()).Inc()
		c.Next()
	}
}
