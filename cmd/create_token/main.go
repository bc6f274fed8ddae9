package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/naomijub/MHTH/internal/service"
)

func main() {
	playerID := flag.String("player", "", "player uuid (random when empty)")
	username := flag.String("username", "smoke", "username claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	key := os.Getenv("SESSION_ENCRYPTION_KEY")
	if key == "" {
		log.Fatal("SESSION_ENCRYPTION_KEY not set")
	}
	service.InitSessions(key)

	id := *playerID
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		log.Fatalf("invalid player uuid: %v", err)
	}

	token, err := service.GenerateSessionToken(id, *username, *ttl)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	log.Printf("player_id=%s\n", id)
	log.Printf("token=%s\n", token)
}
