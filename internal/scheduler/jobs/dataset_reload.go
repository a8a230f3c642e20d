package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/aistocks/internal/contracts"
	"github.com/wonny/aistocks/internal/dataset"
	"github.com/wonny/aistocks/pkg/logger"
)

// invalidator is implemented by sources that cache their raw data
type invalidator interface {
	Invalidate(ctx context.Context) error
}

// Refresher swaps in a freshly loaded dataset
type Refresher interface {
	Refresh(ctx context.Context) (*dataset.Snapshot, error)
}

// DatasetReloadJob reloads the record file into the shared dataset
type DatasetReloadJob struct {
	store    Refresher
	source   contracts.RecordSource
	schedule string
	logger   *logger.Logger
}

// NewDatasetReloadJob creates a reload job. source may be nil; a source with
// a cached body has it invalidated before each refresh.
func NewDatasetReloadJob(store Refresher, source contracts.RecordSource, schedule string, log *logger.Logger) *DatasetReloadJob {
	return &DatasetReloadJob{
		store:    store,
		source:   source,
		schedule: schedule,
		logger:   log.WithField("job", "dataset_reload"),
	}
}

// Name returns the job name
func (j *DatasetReloadJob) Name() string {
	return "dataset_reload"
}

// Schedule returns the cron schedule (seconds field first)
func (j *DatasetReloadJob) Schedule() string {
	return j.schedule
}

// Run drops any cached body and refreshes the dataset
func (j *DatasetReloadJob) Run(ctx context.Context) error {
	if inv, ok := j.source.(invalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			j.logger.WithError(err).Warn("Cache invalidation failed")
		}
	}

	snap, err := j.store.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh dataset: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"version": snap.Version,
		"records": len(snap.Records),
	}).Info("Dataset reloaded")

	return nil
}
