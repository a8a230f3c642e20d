package dataset

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wonny/aistocks/internal/contracts"
	"github.com/wonny/aistocks/pkg/logger"
)

// Snapshot is an immutable loaded record sequence.
// Callers must not modify Records.
type Snapshot struct {
	Records  []contracts.Record
	Source   string
	LoadedAt time.Time
	Version  int64
}

// Latest returns the last record's date, or nil when empty
func (s *Snapshot) Latest() *time.Time {
	if len(s.Records) == 0 {
		return nil
	}
	d := s.Records[len(s.Records)-1].Date
	return &d
}

// Loader supplies records.
// Load falls back to an empty sequence, LoadStrict reports the failure.
type Loader interface {
	Load(ctx context.Context) []contracts.Record
	LoadStrict(ctx context.Context) ([]contracts.Record, error)
	Source() contracts.RecordSource
}

// Store holds the current snapshot
// ⭐ SSOT: the process-wide dataset lives only here
type Store struct {
	loader  Loader
	logger  *logger.Logger
	current atomic.Pointer[Snapshot]
	version atomic.Int64
	mu      sync.Mutex // serializes reloads
}

// New creates a store holding an empty snapshot
func New(loader Loader, log *logger.Logger) *Store {
	s := &Store{
		loader: loader,
		logger: log.WithField("module", "dataset"),
	}
	s.current.Store(&Snapshot{
		Records: []contracts.Record{},
		Source:  loader.Source().Name(),
	})
	return s
}

// Snapshot returns the current snapshot
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Reload loads the records again and swaps the snapshot.
// Sessions holding the previous snapshot keep using it.
func (s *Store) Reload(ctx context.Context) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.swap(s.loader.Load(ctx))
}

// Refresh is Reload for periodic updates: on failure the current snapshot
// is kept and the error returned.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loader.LoadStrict(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Refresh failed, keeping current dataset")
		return s.current.Load(), err
	}
	return s.swap(records), nil
}

func (s *Store) swap(records []contracts.Record) *Snapshot {
	snap := &Snapshot{
		Records:  records,
		Source:   s.loader.Source().Name(),
		LoadedAt: time.Now(),
		Version:  s.version.Add(1),
	}
	s.current.Store(snap)

	s.logger.WithFields(map[string]interface{}{
		"version": snap.Version,
		"records": len(records),
	}).Info("Dataset swapped")

	return snap
}
