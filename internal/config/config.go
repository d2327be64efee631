// Package config loads the runtime configuration from the environment.
package config

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	GeminiAPIKey  string
	GeminiModel   string
	DBPath        string
	HTTPAddr      string
}

// Load reads configuration from the environment, honoring a .env file in
// the working directory when present. Missing credentials are a fatal
// configuration error: the process must refuse to start.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Load(): no .env file found, using environment variables")
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getenvDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		DBPath:        getenvDefault("DB_PATH", "./fouserbot.db"),
		HTTPAddr:      getenvDefault("HTTP_ADDR", ":8080"),
	}

	if cfg.TelegramToken == "" {
		return nil, errors.New("config: TELEGRAM_TOKEN must be set")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("config: GEMINI_API_KEY must be set")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
