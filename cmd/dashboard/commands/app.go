package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/wonny/aistocks/internal/catalog"
	"github.com/wonny/aistocks/internal/contracts"
	"github.com/wonny/aistocks/internal/loader"
	"github.com/wonny/aistocks/internal/store"
	"github.com/wonny/aistocks/pkg/config"
	"github.com/wonny/aistocks/pkg/database"
	"github.com/wonny/aistocks/pkg/httputil"
	"github.com/wonny/aistocks/pkg/logger"
	"github.com/wonny/aistocks/pkg/redis"
)

// app bundles the collaborators shared by the commands
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	catalog *contracts.Catalog
	source  contracts.RecordSource
	loader  *loader.Loader
	db      *database.DB   // nil unless the postgres source is used
	redis   *redis.Client // disabled client when REDIS_ENABLED=false
}

// loadConfig reads the environment and applies the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if dataFile != "" {
		cfg.Data.Source = config.SourceFile
		cfg.Data.File = dataFile
	}
	if catalogFile != "" {
		cfg.Data.CatalogFile = catalogFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if noColor {
		color.NoColor = true
	}

	return cfg, nil
}

// newApp wires config, logger, catalog and the configured record source
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg)

	cat, err := catalog.LoadOrDefault(cfg.Data.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	a := &app{cfg: cfg, log: log, catalog: cat}

	a.redis, err = redis.New(cfg)
	if err != nil {
		return nil, err
	}

	deps := loader.Deps{}
	switch cfg.Data.Source {
	case config.SourceHTTP:
		client := httputil.New(cfg, log)
		if a.redis.Enabled() {
			client = client.WithRateLimiter(redis.NewRateLimiter(a.redis, "aistocks"), redis.DataSourceRateLimit)
		}
		deps.HTTP = client
		deps.Cache = redis.NewCache(a.redis, "aistocks")
	case config.SourcePostgres:
		a.db, err = database.New(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		deps.Repo = store.NewRepository(a.db.Pool)
	}

	a.source, err = loader.NewSource(cfg, deps)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.loader = loader.New(a.source, log)

	log.WithFields(map[string]interface{}{
		"source":      a.source.Name(),
		"instruments": len(cat.Instruments),
		"categories":  len(cat.Categories),
	}).Debug("Application initialized")

	return a, nil
}

// Close releases connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
