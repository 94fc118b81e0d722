package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportlens/backend/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	runs     atomic.Int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return nil
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := New(logger.NewNop())
	job := &countingJob{name: "refresh", schedule: "@weekly"}

	require.NoError(t, s.AddJob(job))
	require.Error(t, s.AddJob(job))
	assert.Equal(t, []string{"refresh"}, s.Jobs())
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(logger.NewNop())
	require.Error(t, s.AddJob(&countingJob{name: "bad", schedule: "not a cron"}))
}

func TestRunJobImmediate(t *testing.T) {
	s := New(logger.NewNop())
	job := &countingJob{name: "refresh", schedule: "@weekly"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("refresh"))
	require.Eventually(t, func() bool {
		return job.runs.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		h, err := s.History("refresh")
		if err != nil {
			return false
		}
		latest, ok := h.Latest()
		return ok && latest.Success
	}, 2*time.Second, 10*time.Millisecond)

	h, err := s.History("refresh")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, h.SuccessRate(), 1e-9)
}

func TestRunJobUnknown(t *testing.T) {
	s := New(logger.NewNop())
	require.Error(t, s.RunJob("ghost"))
}

func TestJobHistoryBounded(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{JobName: "j", Success: i%2 == 0})
	}
	assert.Len(t, h.Results, 100)
}
