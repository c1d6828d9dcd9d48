package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration
	UploadDir   string
	Env         string
}

// LoadConfig reads the .env file and returns a Config struct.
func LoadConfig() *Config {
	// The .env file might not exist in production, which is fine.
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on system env variables")
	}

	return &Config{
		Port:        getEnv("PORT", "5000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenTTL:    getDuration("TOKEN_TTL_HOURS", 168), // 7 days
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		Env:         getEnv("ENV", "development"),
	}
}

// Helper to get env with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallbackHours int) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if hours, err := strconv.Atoi(value); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
		slog.Warn("Invalid duration value, using fallback", "key", key, "value", value)
	}
	return time.Duration(fallbackHours) * time.Hour
}
