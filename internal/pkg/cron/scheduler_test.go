package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePurger struct {
	calls atomic.Int32
	err   error
}

func (f *fakePurger) PurgeExpiredResets(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	return 3, f.err
}

func TestScheduler_RunOnce_RunsEveryJob(t *testing.T) {
	s := NewScheduler()
	var a, b atomic.Int32
	s.AddJob("a", time.Hour, func(ctx context.Context) error { a.Add(1); return nil })
	s.AddJob("b", time.Hour, func(ctx context.Context) error { b.Add(1); return errors.New("boom") })

	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

func TestScheduler_AddJobAfterStartIsIgnored(t *testing.T) {
	s := NewScheduler()
	s.Start(context.Background())
	defer s.Stop()

	var called atomic.Int32
	s.AddJob("late", time.Hour, func(ctx context.Context) error { called.Add(1); return nil })
	s.RunOnce(context.Background())

	assert.Equal(t, int32(0), called.Load())
}

func TestRegisterPasswordResetJobs(t *testing.T) {
	s := NewScheduler()
	purger := &fakePurger{}
	RegisterPasswordResetJobs(s, purger)

	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), purger.calls.Load())
}
