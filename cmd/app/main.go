package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/naomijub/MHTH/internal/config"
	"github.com/naomijub/MHTH/internal/db"
	httpServer "github.com/naomijub/MHTH/internal/http"
	"github.com/naomijub/MHTH/internal/http/middleware"
	"github.com/naomijub/MHTH/internal/logger"
	"github.com/naomijub/MHTH/internal/nakama"
	"github.com/naomijub/MHTH/internal/service"
	"github.com/naomijub/MHTH/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitSessions(cfg.SessionEncryptionKey)

	client := db.Connect(cfg.RedisAddr, cfg.RedisUser, cfg.RedisPassword)
	defer client.Close()

	oracle, err := nakama.NewClient(nakama.Config{
		Endpoint:      cfg.NakamaEndpoint,
		Username:      cfg.NakamaUsername,
		Password:      cfg.NakamaPassword,
		ServerKeyName: cfg.NakamaServerKeyName,
		ServerKey:     cfg.NakamaServerKey,
	}).Authenticate(context.Background())
	if err != nil {
		logger.Fatal("failed to authenticate against nakama console", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := worker.New(client, worker.LogLauncher{}, cfg.WorkerInterval)
	go w.Run(ctx)

	middleware.InitRedisRateLimiter(client)

	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, client, oracle, version, w.Scheduled)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
