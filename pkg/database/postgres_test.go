package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aistocks/pkg/config"
)

func integrationConfig(t *testing.T) *config.Config {
	t.Helper()
	// Skip if DATABASE_URL is not set
	url := os.Getenv("DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	return &config.Config{
		Database: config.DatabaseConfig{
			URL:             url,
			MaxConns:        2,
			MinConns:        0,
			MaxConnLifetime: time.Minute,
			MaxConnIdleTime: time.Minute,
		},
	}
}

func TestNew_InvalidURL(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{URL: "://not a url", MaxConns: 1}}
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	cfg := integrationConfig(t)

	db, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Equal(t, int32(2), status.Stats.MaxConns)
}
