package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	runs int
	err  error
}

func (j *countingJob) Run(ctx context.Context) (*Summary, error) {
	j.runs++
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("scan has no deadline")
	}
	return &Summary{}, j.err
}

func TestScheduler_StartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(&countingJob{}, nil)
	assert.Error(t, s.Start("every tuesday"))
}

func TestScheduler_StartAndStop(t *testing.T) {
	s := NewScheduler(&countingJob{}, nil)
	assert.NoError(t, s.Start("0 6 * * *"))
	s.Stop()
}

func TestScheduler_RunExpirationScan(t *testing.T) {
	job := &countingJob{}
	s := NewScheduler(job, nil)

	s.runExpirationScan()
	job.err = errors.New("mocked-error")
	s.runExpirationScan()

	assert.Equal(t, 2, job.runs)
}
