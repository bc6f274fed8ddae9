package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/naomijub/MHTH/internal/service"
)

func authRouter(t *testing.T, extra ...gin.HandlerFunc) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{SessionAuth()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(200, gin.H{"user_id": c.GetString("user_id")})
	})
	r.GET("/protected", handlers...)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doAuthed(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return res
}

func TestSessionAuth(t *testing.T) {
	service.InitSessions("test-encryption-key")
	srv := authRouter(t)

	res := doAuthed(t, srv.URL+"/protected", "")
	if res.StatusCode != 401 {
		t.Fatalf("expected 401 without token, got %d", res.StatusCode)
	}

	res = doAuthed(t, srv.URL+"/protected", "not-a-token")
	if res.StatusCode != 401 {
		t.Fatalf("expected 401 with garbage token, got %d", res.StatusCode)
	}

	token, err := service.GenerateSessionToken(uuid.NewString(), "tester", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	res = doAuthed(t, srv.URL+"/protected", token)
	if res.StatusCode != 200 {
		t.Fatalf("expected 200 with valid token, got %d", res.StatusCode)
	}
}

func TestQueueRateLimitPerPlayer(t *testing.T) {
	service.InitSessions("test-encryption-key")
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	InitRedisRateLimiter(client)
	t.Cleanup(func() { InitRedisRateLimiter(nil) })

	srv := authRouter(t, QueueRateLimit(1, time.Minute))

	playerA, err := service.GenerateSessionToken(uuid.NewString(), "a", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	playerB, err := service.GenerateSessionToken(uuid.NewString(), "b", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if res := doAuthed(t, srv.URL+"/protected", playerA); res.StatusCode != 200 {
		t.Fatalf("expected first call to pass, got %d", res.StatusCode)
	}
	if res := doAuthed(t, srv.URL+"/protected", playerA); res.StatusCode != 429 {
		t.Fatalf("expected second call blocked, got %d", res.StatusCode)
	}
	// The limit is per player, not per IP.
	if res := doAuthed(t, srv.URL+"/protected", playerB); res.StatusCode != 200 {
		t.Fatalf("expected other player to pass, got %d", res.StatusCode)
	}
}
