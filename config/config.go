package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port string

	DBDriver      string // "mongo" or "memory"
	MongoURI      string
	MongoDB       string
	DBMaxAttempts int
	DBCooldown    time.Duration

	RedisAddr     string
	RedisPassword string

	AMQPURL      string
	AMQPExchange string

	JWTSecret string
	JWTIssuer string

	CORSOrigins []string

	UploadDir     string
	PublicBaseURL string

	RateLimitPerMinute int
	InvoiceSecret      string
}

// Load reads configuration from the environment and performs minimal validation.
// Callers are expected to have loaded .env (godotenv) beforehand.
func Load() (Config, error) {
	cfg, err := LoadStorage()
	if err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.InvoiceSecret == "" {
		cfg.InvoiceSecret = cfg.JWTSecret
	}
	return cfg, nil
}

// LoadStorage reads the same variables but only validates what offline
// tools need to reach the database.
func LoadStorage() (Config, error) {
	cfg := Config{
		Port:          fallback(os.Getenv("PORT"), "8080"),
		DBDriver:      strings.ToLower(fallback(os.Getenv("DB_DRIVER"), "mongo")),
		MongoURI:      fallback(os.Getenv("MONGO_URI"), "mongodb://localhost:27017"),
		MongoDB:       fallback(os.Getenv("MONGO_DB"), "bhraman"),
		DBMaxAttempts: atoi(os.Getenv("DB_MAX_ATTEMPTS"), 3),
		DBCooldown:    duration(os.Getenv("DB_COOLDOWN"), 30*time.Second),
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AMQPURL:       strings.TrimSpace(os.Getenv("AMQP_URL")),
		AMQPExchange:  fallback(os.Getenv("AMQP_EXCHANGE"), "bhraman.events"),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:     strings.TrimSpace(os.Getenv("JWT_ISSUER")),
		CORSOrigins:   parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		UploadDir:     fallback(os.Getenv("UPLOAD_DIR"), "./static/uploads"),
		PublicBaseURL: strings.TrimRight(fallback(os.Getenv("PUBLIC_BASE_URL"), "/uploads"), "/"),

		RateLimitPerMinute: atoi(os.Getenv("RATE_LIMIT_PER_MINUTE"), 30),
		InvoiceSecret:      strings.TrimSpace(os.Getenv("INVOICE_SECRET")),
	}

	if cfg.DBDriver != "mongo" && cfg.DBDriver != "memory" {
		return Config{}, errors.New("DB_DRIVER must be mongo or memory")
	}
	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func atoi(value string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func duration(value string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
