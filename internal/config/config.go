package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// devJWTSecret is only accepted when APP_ENV is "dev" or "test".
const devJWTSecret = "dev-only-insecure-secret"

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env          string        // application environment (e.g. "dev", "prod")
	Port         string        // HTTP port to listen on (PORT, default 3000)
	JWTSecret    string        // secret used to sign JWTs
	AccessTTL    time.Duration // access token lifetime, 24h by default
	BcryptCost   int           // bcrypt cost for the seeded password hashes
	SeedPassword string        // password given to every seeded user
	RabbitMQURL  string        // broker for domain events; empty disables them
	AuditLogDir  string        // where the audit consumer appends audit.log
	Cache        CacheConfig
	Redis        RedisConfig
}

// Load reads configuration values from environment variables and returns a
// Config.  Invalid values cause the program to exit with a fatal log message.
func Load() Config {
	cfg, err := load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func load() (Config, error) {
	cfg := Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         getenv("PORT", "3000"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		SeedPassword: getenv("SEED_PASSWORD", "password"),
		RabbitMQURL:  firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
		AuditLogDir:  getenv("AUDIT_LOG_DIR", "logs"),
		Redis:        LoadRedisConfig(),
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != "dev" && cfg.Env != "test" {
			return Config{}, errors.New("missing required env var: JWT_SECRET")
		}
		cfg.JWTSecret = devJWTSecret
	}

	ttl, err := time.ParseDuration(getenv("ACCESS_TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("invalid duration for ACCESS_TOKEN_TTL: %q", os.Getenv("ACCESS_TOKEN_TTL"))
	}
	cfg.AccessTTL = ttl

	cost, err := strconv.Atoi(getenv("BCRYPT_COST", "10"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid int for BCRYPT_COST: %q", os.Getenv("BCRYPT_COST"))
	}
	cfg.BcryptCost = cost

	if cfg.Cache, err = LoadCacheConfig(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
