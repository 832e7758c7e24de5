package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type countingConcluder struct {
	calls atomic.Int32
	err   error
}

func (c *countingConcluder) ConcludeElapsed(ctx context.Context, now time.Time) (int, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestSchedulerRunsImmediatelyAndOnTicks(t *testing.T) {
	concluder := &countingConcluder{}
	s := NewScheduler(concluder, 10*time.Millisecond, zaptest.NewLogger(t))

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return concluder.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	s.Stop()
	stopped := concluder.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, concluder.calls.Load())
}

func TestSchedulerSurvivesErrorsAndContextCancel(t *testing.T) {
	concluder := &countingConcluder{err: errors.New("db down")}
	s := NewScheduler(concluder, 5*time.Millisecond, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.Eventually(t, func() bool { return concluder.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	s.Stop()
	s.Stop()
}
