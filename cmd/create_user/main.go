package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/naomijub/MHTH/internal/nakama"
)

func main() {
	username := flag.String("username", "", "console username to create")
	password := flag.String("password", "", "password for the new user")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -username and -password are required")
	}

	operatorPassword := os.Getenv("NAKAMA_PASSWORD")
	if operatorPassword == "" {
		log.Fatal("NAKAMA_PASSWORD not set")
	}

	endpoint := "http://127.0.0.1:7350"
	if host := os.Getenv("NAKAMA_HOST"); host != "" {
		port := os.Getenv("NAKAMA_CONSOLE_PORT")
		if port == "" {
			port = "7351"
		}
		endpoint = "http://" + host + ":" + port
	}

	operator := os.Getenv("NAKAMA_USERNAME")
	if operator == "" {
		operator = "mhth_nakama_client"
	}
	serverKeyName := os.Getenv("NAKAMA_SERVER_KEY_NAME")
	if serverKeyName == "" {
		serverKeyName = "defaultkey"
	}
	serverKey := os.Getenv("NAKAMA_SERVER_KEY")
	if serverKey == "" {
		serverKey = "abcde123"
	}

	ctx := context.Background()
	client, err := nakama.NewClient(nakama.Config{
		Endpoint:      endpoint,
		Username:      operator,
		Password:      operatorPassword,
		ServerKeyName: serverKeyName,
		ServerKey:     serverKey,
	}).Authenticate(ctx)
	if err != nil {
		log.Fatalf("console auth failed: %v", err)
	}

	if err := client.CreateAdminUser(ctx, *username, *password); err != nil {
		log.Fatalf("create user failed: %v", err)
	}

	log.Printf("admin user %s created\n", *username)
}
