package loader

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/wonny/aistocks/internal/contracts"
	"github.com/wonny/aistocks/pkg/httputil"
	"github.com/wonny/aistocks/pkg/redis"
)

// FileSource reads the record file from disk
type FileSource struct {
	path string
}

// NewFileSource creates a file source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name identifies the source in logs
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Load reads and parses the file
func (s *FileSource) Load(ctx context.Context) ([]contracts.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return ParseRecords(data)
}

// HTTPSource fetches the record file over HTTP.
// The raw body is cached when a cache is configured.
type HTTPSource struct {
	client *httputil.Client
	cache  *redis.Cache
	url    string
	ttl    time.Duration
}

// NewHTTPSource creates an HTTP source. cache may be nil.
func NewHTTPSource(client *httputil.Client, cache *redis.Cache, url string, ttl time.Duration) *HTTPSource {
	return &HTTPSource{
		client: client,
		cache:  cache,
		url:    url,
		ttl:    ttl,
	}
}

// Name identifies the source in logs
func (s *HTTPSource) Name() string {
	return "http:" + s.url
}

// Load fetches and parses the remote file
func (s *HTTPSource) Load(ctx context.Context) ([]contracts.Record, error) {
	fetch := func() ([]byte, error) {
		return s.client.GetBytes(ctx, s.url)
	}

	var (
		data []byte
		err  error
	)
	if s.cache != nil {
		data, err = s.cache.GetOrSetBytes(ctx, redis.DatasetKey(s.url), s.ttl, fetch)
	} else {
		data, err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return ParseRecords(data)
}

// Invalidate drops the cached body so the next Load fetches again
func (s *HTTPSource) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, redis.DatasetKey(s.url))
}

// RepositorySource reads records from a repository (PostgreSQL in production)
type RepositorySource struct {
	repo contracts.RecordRepository
}

// NewRepositorySource creates a repository-backed source
func NewRepositorySource(repo contracts.RecordRepository) *RepositorySource {
	return &RepositorySource{repo: repo}
}

// Name identifies the source in logs
func (s *RepositorySource) Name() string {
	return "postgres"
}

// Load reads all stored records
func (s *RepositorySource) Load(ctx context.Context) ([]contracts.Record, error) {
	return s.repo.LoadRecords(ctx)
}
