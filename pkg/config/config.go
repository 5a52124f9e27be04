package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	RedisURL                string
	MetricsPort             string
	JWTSecret               string
	SessionTTL              time.Duration
	RateLimitPerSecond      float64

	FeedPageSize        int
	SuggestedUsersLimit int

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// IsDevelopment reports whether the process runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		RedisURL:                getEnv("REDIS_URL", ""),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		SessionTTL:              getEnvDuration("SESSION_TTL", 72*time.Hour),
		RateLimitPerSecond:      getEnvFloat("RATE_LIMIT_PER_SECOND", 20),
		FeedPageSize:            getEnvInt("FEED_PAGE_SIZE", 10),
		SuggestedUsersLimit:     getEnvInt("SUGGESTED_USERS_LIMIT", 5),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogPath:                 getEnv("LOG_PATH", ""),
		LogMaxSizeMB:            getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups:           getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:           getEnvInt("LOG_MAX_AGE_DAYS", 7),
		LogCompress:             getEnv("LOG_COMPRESS", "false") == "true",
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			log.Fatal("JWT_SECRET must be set outside development")
		}
		cfg.JWTSecret = "dev-only-session-secret"
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
