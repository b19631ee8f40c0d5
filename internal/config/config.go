package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port        string
	Environment string

	// DatabasePath is the SQLite database file.
	DatabasePath string

	// UploadBackend selects where uploaded assets live: "disk" or "s3".
	UploadBackend string
	UploadsDir    string

	// IdentityBaseURL points at the external identity service used to
	// verify bearer tokens. When empty, tokens are verified locally with
	// JWTSecret (development mode).
	IdentityBaseURL string
	IdentityTimeout time.Duration
	JWTSecret       string

	CORSAllowedOrigins []string
}

func Load() *Config {
	// .env is optional; deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	return &Config{
		Port:               getEnv("PORT", "5000"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		DatabasePath:       getEnv("DATABASE_PATH", "a10.db"),
		UploadBackend:      getEnv("UPLOAD_BACKEND", "disk"),
		UploadsDir:         getEnv("UPLOADS_DIR", "uploads"),
		IdentityBaseURL:    getEnv("IDENTITY_BASE_URL", ""),
		IdentityTimeout:    getDuration("IDENTITY_TIMEOUT", 15*time.Second),
		JWTSecret:          getEnv("JWT_SECRET", "dev"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
		return defaultValue
	}
	return d
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
