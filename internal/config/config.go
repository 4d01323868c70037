package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL     string
	RedisAddr       string
	HTTPAddr        string
	LogLevel        string
	Env             string // dev|prod
	SentryDSN       string
	JWTIssuer       string
	JWTSigningKey   string
	AccessTTL       time.Duration
	DBTimeout       time.Duration
	QueueBackend    string // redis|memory
	RateLimitPerMin int
	QRServiceURL    string
	Location        *time.Location
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Asia/Manila")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	cfg := &Config{
		DatabaseURL:     mustEnv("DATABASE_URL"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		Env:             getenv("ENV", "dev"),
		SentryDSN:       os.Getenv("SENTRY_DSN"),
		JWTIssuer:       getenv("JWT_ISSUER", "sgov-backend"),
		JWTSigningKey:   mustEnv("JWT_SIGNING_KEY"),
		AccessTTL:       durationEnv("ACCESS_TTL", 12*time.Hour),
		DBTimeout:       durationEnv("DB_TIMEOUT", 5*time.Second),
		QueueBackend:    getenv("QUEUE_BACKEND", "redis"),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
		QRServiceURL:    getenv("QR_SERVICE_URL", "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data="),
		Location:        loc,
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationEnv(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func intEnv(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
