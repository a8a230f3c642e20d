package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aistocks/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int32 // fail this many times before succeeding
	calls    atomic.Int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	if j.calls.Add(1) <= j.failures {
		return errors.New("transient")
	}
	return nil
}

func newTestScheduler() *Scheduler {
	return New(logger.NewNop(), WithRetry(2, time.Millisecond))
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "0 0 * * * *"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@every 1h"}))
	assert.Equal(t, []string{"a", "b"}, s.Jobs())

	assert.Error(t, s.AddJob(&fakeJob{name: "a", schedule: "@every 1h"}), "duplicate name")
	assert.Error(t, s.AddJob(&fakeJob{name: "c", schedule: "not a schedule"}))
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@every 1h"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.Jobs())
	assert.Empty(t, s.Stats())
	assert.Error(t, s.RemoveJob("a"))
}

func TestRunJob_RetriesThenSucceeds(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "flaky", schedule: "@every 1h", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob("flaky")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)

	stats := s.Stats()["flaky"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.NotNil(t, stats.LastSuccess)
	assert.Nil(t, stats.LastFailure)
}

func TestRunJob_FailsAfterRetries(t *testing.T) {
	s := newTestScheduler()
	job := &fakeJob{name: "broken", schedule: "@every 1h", failures: 100}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob("broken")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "transient", result.Error)

	history, err := s.JobHistory("broken")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1, s.Stats()["broken"].FailureCount)
}

func TestRunJob_NotFound(t *testing.T) {
	_, err := newTestScheduler().RunJob("missing")
	assert.Error(t, err)

	_, err = newTestScheduler().JobHistory("missing")
	assert.Error(t, err)
}

func TestStop_CancelsRetryWait(t *testing.T) {
	s := New(logger.NewNop(), WithRetry(5, time.Hour))
	job := &fakeJob{name: "slow", schedule: "@every 1h", failures: 100}
	require.NoError(t, s.AddJob(job))
	s.Start()

	done := make(chan JobResult)
	go func() {
		r, _ := s.RunJob("slow")
		done <- r
	}()

	require.Eventually(t, func() bool { return job.calls.Load() >= 1 }, time.Second, time.Millisecond)
	s.Stop()

	select {
	case r := <-done:
		assert.False(t, r.Success)
		assert.Equal(t, 1, r.Attempts)
	case <-time.After(2 * time.Second):
		t.Fatal("job did not stop")
	}
}

type blockingJob struct {
	started chan struct{}
	release chan struct{}
}

func (j *blockingJob) Name() string     { return "blocking" }
func (j *blockingJob) Schedule() string { return "@every 1h" }

func (j *blockingJob) Run(ctx context.Context) error {
	close(j.started)
	<-j.release
	return nil
}

func TestRunJobOnce_SingleAttempt(t *testing.T) {
	s := New(logger.NewNop(), WithRetry(3, time.Hour))
	job := &fakeJob{name: "down", schedule: "@every 1h", failures: 100}
	require.NoError(t, s.AddJob(job))

	start := time.Now()
	result, err := s.RunJobOnce(context.Background(), "down")
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second, "no retry wait")
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, "transient", result.Error)
	assert.Equal(t, int32(1), job.calls.Load())

	history, err := s.JobHistory("down")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1, s.Stats()["down"].FailureCount)

	_, err = s.RunJobOnce(context.Background(), "missing")
	assert.Error(t, err)
}

func TestRunJobOnce_Busy(t *testing.T) {
	s := newTestScheduler()
	job := &blockingJob{started: make(chan struct{}), release: make(chan struct{})}
	require.NoError(t, s.AddJob(job))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.RunJob("blocking")
	}()
	<-job.started

	_, err := s.RunJobOnce(context.Background(), "blocking")
	assert.ErrorIs(t, err, ErrJobBusy)

	close(job.release)
	<-done
}

func TestJobHistory_Limit(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+10; i++ {
		h.AddResult(JobResult{Success: i%2 == 0})
	}
	assert.Len(t, h.Results, historyLimit)
	assert.Len(t, h.Latest(5), 5)
	assert.Equal(t, 0.5, h.SuccessRate())
	assert.Empty(t, (&JobHistory{}).Latest(3))
}
