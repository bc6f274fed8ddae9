package db

import (
	"context"

	"github.com/naomijub/MHTH/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// Connect opens the shared Redis client. go-redis multiplexes one pool
// across all ingress calls and the worker, so this client is built once
// and injected everywhere.
func Connect(addr, username, password string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("failed to ping redis", "error", err)
	}

	logger.Info("redis connected", "addr", addr)
	return client
}
