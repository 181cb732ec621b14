package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualDriver fires the registered job only when told to.
type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(_ context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func TestSchedulerRunsJobOnEveryTick(t *testing.T) {
	t.Parallel()

	repo := &memoryRepo{}
	job, err := NewJob(JobDeps{
		Source:     staticSource{name: "r", titles: []string{"a"}},
		Pipeline:   lexicalPipeline(t, 0, map[string]int{"a": 20}),
		Repository: repo,
	})
	require.NoError(t, err)

	driver := &manualDriver{}
	s := NewScheduler(driver, job, nil)
	require.NoError(t, s.Start(context.Background()))
	require.NotNil(t, driver.job)

	driver.job(time.Now())
	driver.job(time.Now())
	assert.Len(t, repo.saved, 2)

	require.NoError(t, s.Stop(context.Background()))
	assert.True(t, driver.stopped)
}

func TestSchedulerSurvivesFailingTick(t *testing.T) {
	t.Parallel()

	job, err := NewJob(JobDeps{
		Source:   staticSource{err: context.DeadlineExceeded},
		Pipeline: lexicalPipeline(t, 0, nil),
	})
	require.NoError(t, err)

	driver := &manualDriver{}
	require.NoError(t, NewScheduler(driver, job, nil).Start(context.Background()))

	assert.NotPanics(t, func() { driver.job(time.Now()) })
}
