package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge/internal/shared/logger"
)

type fakeSweeper struct {
	mu      sync.Mutex
	results []int
	err     error
	calls   int
	panics  bool
}

func (f *fakeSweeper) ExpireLapsed(_ context.Context, _ int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.panics {
		panic("boom")
	}
	if f.err != nil {
		return 0, f.err
	}
	if len(f.results) == 0 {
		return 0, nil
	}
	n := f.results[0]
	f.results = f.results[1:]
	return n, nil
}

func (f *fakeSweeper) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestExpiryScheduler_SweepDrainsFullBatches(t *testing.T) {
	sweeper := &fakeSweeper{results: []int{2, 2, 1}}
	s := NewExpiryScheduler(sweeper, time.Hour, logger.NewNopLogger())
	s.batch = 2

	s.sweep(context.Background())
	assert.Equal(t, 3, sweeper.Calls())
}

func TestExpiryScheduler_SweepStopsOnError(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("db down")}
	s := NewExpiryScheduler(sweeper, time.Hour, logger.NewNopLogger())

	s.sweep(context.Background())
	assert.Equal(t, 1, sweeper.Calls())
}

func TestExpiryScheduler_SweepSurvivesPanic(t *testing.T) {
	sweeper := &fakeSweeper{panics: true}
	s := NewExpiryScheduler(sweeper, time.Hour, logger.NewNopLogger())

	assert.NotPanics(t, func() { s.sweep(context.Background()) })
}

func TestExpiryScheduler_StartRunsAndStops(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := NewExpiryScheduler(sweeper, 10*time.Millisecond, logger.NewNopLogger())

	s.Start(context.Background())
	require.Eventually(t, func() bool { return sweeper.Calls() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	after := sweeper.Calls()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, sweeper.Calls())
}
