package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"os"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	// JWTSecret signs session tokens. There is deliberately no fallback:
	// startup fails when it is unset.
	JWTSecret string

	// Optional extras. Empty values disable the feature.
	RedisAddr    string
	OTLPEndpoint string

	CacheTTLSeconds int

	// Bootstrap staff account, seeded at startup when both are set.
	AdminUsername string
	AdminPassword string
	AdminEmail    string
	AdminRole     string
}

// Load reads configuration from the environment. The signing secret and the
// store coordinates are mandatory: a missing value aborts startup instead of
// silently falling back to an embedded default.
func Load() (Config, error) {
	var missing []string

	require := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		JWTSecret: require("JWT_SECRET"),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),

		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 15),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@cvhub.local"),
		AdminRole:     getEnv("ADMIN_ROLE", "admin"),
	}

	host := require("DB_HOST")
	userName := require("DB_USER")
	pass := require("DB_PASSWORD")
	name := require("DB_NAME")
	port := getEnv("DB_PORT", "5432")
	ssl := getEnv("DB_SSLMODE", "disable")

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	cfg.DBURL = "postgres://" + userName + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl

	return cfg, nil
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}
