package dataset

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aistocks/internal/contracts"
	"github.com/wonny/aistocks/pkg/logger"
)

type namedSource string

func (n namedSource) Name() string { return string(n) }

func (n namedSource) Load(ctx context.Context) ([]contracts.Record, error) { return nil, nil }

type countingLoader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (l *countingLoader) Load(ctx context.Context) []contracts.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++

	records := make([]contracts.Record, l.calls)
	for i := range records {
		records[i] = contracts.NewRecord(time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC))
	}
	return records
}

func (l *countingLoader) LoadStrict(ctx context.Context) ([]contracts.Record, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.Load(ctx), nil
}

func (l *countingLoader) Source() contracts.RecordSource { return namedSource("counting") }

func TestStore_StartsEmpty(t *testing.T) {
	s := New(&countingLoader{}, logger.NewNop())

	snap := s.Snapshot()
	require.NotNil(t, snap)
	assert.Empty(t, snap.Records)
	assert.Nil(t, snap.Latest())
	assert.Equal(t, "counting", snap.Source)
	assert.Zero(t, snap.Version)
}

func TestStore_ReloadSwapsSnapshot(t *testing.T) {
	s := New(&countingLoader{}, logger.NewNop())

	first := s.Reload(context.Background())
	assert.Len(t, first.Records, 1)
	assert.Equal(t, int64(1), first.Version)

	pinned := s.Snapshot()
	second := s.Reload(context.Background())
	assert.Len(t, second.Records, 2)
	assert.Equal(t, int64(2), second.Version)

	// The pinned snapshot is unchanged
	assert.Len(t, pinned.Records, 1)
	assert.Same(t, second, s.Snapshot())

	latest := second.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.Day())
}

func TestStore_ConcurrentReload(t *testing.T) {
	s := New(&countingLoader{}, logger.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Reload(context.Background())
			_ = s.Snapshot().Records
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(8), s.Snapshot().Version)
	assert.Len(t, s.Snapshot().Records, 8)
}

func TestStore_Refresh(t *testing.T) {
	loader := &countingLoader{}
	s := New(loader, logger.NewNop())

	snap, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Records, 1)

	loader.err = errors.New("source down")
	kept, err := s.Refresh(context.Background())
	assert.Error(t, err)
	assert.Same(t, snap, kept)
	assert.Same(t, snap, s.Snapshot())
}
