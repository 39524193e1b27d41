package config

import (
	"log"
	"os"

	"pizzabot-api/store"
)

// Store is the shared remote-store client, set by InitStore
var Store store.Store

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "pizzabot_super_secret_2024"))

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitStore opens the sqlite-backed store
func InitStore() {
	s, err := store.Open(getEnv("STORE_PATH", "pizzabot.db"))
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	Store = s
	log.Println("✅ Store connected and migrated successfully")
}
