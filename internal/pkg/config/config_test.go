package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "medstock", cfg.Mongo.Database)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 25, cfg.Reports.LowStockThreshold)
	assert.Equal(t, 30, cfg.Reports.ExpiryWindowDays)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":                 "production",
		"JWT_SECRET":          "s3cret",
		"STORE_DRIVER":        "postgres",
		"REDIS_ENABLED":       "false",
		"LOW_STOCK_THRESHOLD": "10",
		"IDEMPOTENCY_TTL":     "1h",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10, cfg.Reports.LowStockThreshold)
	assert.Equal(t, time.Hour, cfg.Redis.IdempotencyTTL)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":     {"STORE_DRIVER": "sqlite"},
		"missing secret":     {"ENV": "production"},
		"negative threshold": {"LOW_STOCK_THRESHOLD": "-1"},
		"zero window":        {"EXPIRY_WINDOW_DAYS": "0"},
	}
	for name, env := range cases {
		_, err := load(context.Background(), envconfig.MapLookuper(env))
		assert.Error(t, err, name)
	}
}
