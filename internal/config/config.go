package config

import (
	"os"
	"strconv"
	"time"

	"github.com/naomijub/MHTH/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	// Redis coordinates
	RedisAddr     string
	RedisUser     string
	RedisPassword string

	// Nakama console (skill oracle)
	NakamaEndpoint      string
	NakamaUsername      string
	NakamaPassword      string
	NakamaServerKeyName string
	NakamaServerKey     string

	SessionEncryptionKey string

	LogLevel string
	LogJSON  bool

	WorkerInterval time.Duration
}

// Load reads configuration from the environment.
func Load() *Config {
	_ = godotenv.Load()

	sessionKey := os.Getenv("SESSION_ENCRYPTION_KEY")
	if sessionKey == "" {
		logger.Fatal("SESSION_ENCRYPTION_KEY is not set")
	}

	nakamaPassword := os.Getenv("NAKAMA_PASSWORD")
	if nakamaPassword == "" {
		logger.Fatal("NAKAMA_PASSWORD is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisHost := os.Getenv("REDIS_URL")
	if redisHost == "" {
		redisHost = "localhost"
	}
	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}
	redisUser := os.Getenv("REDIS_USER")
	if redisUser == "" {
		redisUser = "root"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	if redisPassword == "" {
		redisPassword = "password"
	}

	nakamaEndpoint := "http://127.0.0.1:7350"
	if host := os.Getenv("NAKAMA_HOST"); host != "" {
		nakamaPort := os.Getenv("NAKAMA_CONSOLE_PORT")
		if nakamaPort == "" {
			nakamaPort = "7351"
		}
		nakamaEndpoint = "http://" + host + ":" + nakamaPort
	}

	nakamaUsername := os.Getenv("NAKAMA_USERNAME")
	if nakamaUsername == "" {
		nakamaUsername = "mhth_nakama_client"
	}
	serverKeyName := os.Getenv("NAKAMA_SERVER_KEY_NAME")
	if serverKeyName == "" {
		serverKeyName = "defaultkey"
	}
	serverKey := os.Getenv("NAKAMA_SERVER_KEY")
	if serverKey == "" {
		serverKey = "abcde123"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	workerInterval := 30 * time.Second
	if v := os.Getenv("WORKER_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			workerInterval = time.Duration(n) * time.Second
		}
	}

	return &Config{
		AppPort:              port,
		RedisAddr:            redisHost + ":" + redisPort,
		RedisUser:            redisUser,
		RedisPassword:        redisPassword,
		NakamaEndpoint:       nakamaEndpoint,
		NakamaUsername:       nakamaUsername,
		NakamaPassword:       nakamaPassword,
		NakamaServerKeyName:  serverKeyName,
		NakamaServerKey:      serverKey,
		SessionEncryptionKey: sessionKey,
		LogLevel:             logLevel,
		LogJSON:              os.Getenv("LOG_JSON") == "true",
		WorkerInterval:       workerInterval,
	}
}
