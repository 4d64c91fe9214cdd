package config

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "JWT_SECRET", "ACCESS_TOKEN_TTL", "BCRYPT_COST", "SEED_PASSWORD", "RABBITMQ_URL", "AMQP_URL", "CACHE_ENABLED", "CACHE_TTL", "CACHE_MAX_BODY_BYTES", "REDIS_ADDR", "REDIS_HOST", "REDIS_PORT"} {
		t.Setenv(k, "")
	}

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.AccessTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "password", cfg.SeedPassword)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 1<<20, cfg.Cache.MaxBodyBytes)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")
	t.Setenv("CACHE_ENABLED", "off")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "amqp://u:p@broker:5672/", cfg.RabbitMQURL)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_SecretRequiredOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "")

	_, err := load()
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "")

	t.Setenv("ACCESS_TOKEN_TTL", "forever")
	_, err := load()
	assert.Error(t, err)

	t.Setenv("ACCESS_TOKEN_TTL", "24h")
	t.Setenv("BCRYPT_COST", "high")
	_, err = load()
	assert.Error(t, err)

	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("CACHE_MAX_BODY_BYTES", "1MB")
	_, err = load()
	assert.ErrorContains(t, err, "CACHE_MAX_BODY_BYTES")

	t.Setenv("CACHE_MAX_BODY_BYTES", "-1")
	_, err = load()
	assert.ErrorContains(t, err, "CACHE_MAX_BODY_BYTES")

	t.Setenv("CACHE_MAX_BODY_BYTES", "")
	t.Setenv("CACHE_TTL", "soon")
	_, err = load()
	assert.ErrorContains(t, err, "CACHE_TTL")
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb := NewRedisClient(RedisConfig{Addr: mr.Addr()})
	require.NotNil(t, rdb)
	t.Cleanup(func() { _ = rdb.Close() })

	mr.Close()
	assert.Nil(t, NewRedisClient(RedisConfig{Addr: mr.Addr()}))
}
