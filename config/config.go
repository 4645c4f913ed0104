package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	GinMode       string
	LogLevel      string
	DBUrl         string
	DBAutoMigrate bool
	FrontendURL   string
	// Token verification
	JWTSecret string
	JWKSURL   string
	// Redis profile cache
	RedisURL        string
	RedisPassword   string
	ProfileCacheTTL time.Duration
	// Kafka profile events
	KafkaBrokers []string
	KafkaTopic   string
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; missing file is fine
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBUrl:           getEnv("DATABASE_URL", ""),
		DBAutoMigrate:   getEnvBool("DB_AUTO_MIGRATE", true),
		FrontendURL:     strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWKSURL:         strings.TrimSpace(getEnv("JWKS_URL", "")),
		RedisURL:        getEnv("REDIS_URL", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		ProfileCacheTTL: time.Duration(getEnvInt("PROFILE_CACHE_TTL_SECONDS", 60)) * time.Second,
		KafkaBrokers:    getEnvList("KAFKA_BROKERS"),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "profile.events"),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" && cfg.JWKSURL == "" {
		log.Println("WARNING: neither JWT_SECRET nor JWKS_URL is set. Every protected request will be rejected.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Profile reads will not be cached.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
