package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/aistocks/internal/contracts"
	"github.com/wonny/aistocks/pkg/config"
	"github.com/wonny/aistocks/pkg/httputil"
	"github.com/wonny/aistocks/pkg/logger"
	"github.com/wonny/aistocks/pkg/redis"
)

// Loader supplies the date-ascending record sequence
// ⭐ SSOT: records reach the engine only through here
type Loader struct {
	source contracts.RecordSource
	logger *logger.Logger
}

// New creates a loader over a source
func New(source contracts.RecordSource, log *logger.Logger) *Loader {
	return &Loader{
		source: source,
		logger: log.WithField("module", "loader"),
	}
}

// Source returns the underlying source
func (l *Loader) Source() contracts.RecordSource {
	return l.source
}

// Load returns the records, or an empty sequence if loading fails.
// The failure is logged.
func (l *Loader) Load(ctx context.Context) []contracts.Record {
	records, err := l.LoadStrict(ctx)
	if err != nil {
		l.logger.WithError(err).WithField("source", l.source.Name()).Error("Failed to load records, using empty dataset")
		return []contracts.Record{}
	}
	return records
}

// LoadStrict returns the records or the load error
func (l *Loader) LoadStrict(ctx context.Context) ([]contracts.Record, error) {
	start := time.Now()

	records, err := l.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.source.Name(), err)
	}
	if records == nil {
		records = []contracts.Record{}
	}
	contracts.SortRecords(records)

	l.logger.WithFields(map[string]interface{}{
		"source":   l.source.Name(),
		"records":  len(records),
		"duration": time.Since(start).String(),
	}).Info("Records loaded")

	return records, nil
}

// Deps carries the optional collaborators a source may need
type Deps struct {
	HTTP  *httputil.Client
	Cache *redis.Cache
	Repo  contracts.RecordRepository
}

// NewSource builds the source selected by DATA_SOURCE
func NewSource(cfg *config.Config, deps Deps) (contracts.RecordSource, error) {
	switch cfg.Data.Source {
	case config.SourceFile:
		return NewFileSource(cfg.Data.File), nil
	case config.SourceHTTP:
		if deps.HTTP == nil {
			return nil, fmt.Errorf("http source requires an HTTP client")
		}
		return NewHTTPSource(deps.HTTP, deps.Cache, cfg.Data.URL, cfg.Redis.CacheTTL), nil
	case config.SourcePostgres:
		if deps.Repo == nil {
			return nil, fmt.Errorf("postgres source requires a repository")
		}
		return NewRepositorySource(deps.Repo), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}
