package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/naomijub/MHTH/internal/db"
	"github.com/naomijub/MHTH/internal/repository"
)

func main() {
	regions := flag.String("regions", "CAN,US,SOUTH_AMERICA", "comma-separated region list")
	flag.Parse()

	host := os.Getenv("REDIS_URL")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	user := os.Getenv("REDIS_USER")
	if user == "" {
		user = "root"
	}
	password := os.Getenv("REDIS_PASSWORD")
	if password == "" {
		password = "password"
	}

	client := db.Connect(host+":"+port, user, password)
	defer client.Close()

	list := strings.Split(*regions, ",")
	for i := range list {
		list[i] = strings.TrimSpace(list[i])
	}

	ctx := context.Background()
	repo := repository.NewRegionRepository(client)
	if err := repo.Set(ctx, list); err != nil {
		log.Fatalf("failed to set regions: %v", err)
	}

	// verify read
	got, err := repo.Get(ctx)
	if err != nil {
		log.Fatalf("failed to read regions back: %v", err)
	}
	log.Printf("regions=%v\n", got)
}
