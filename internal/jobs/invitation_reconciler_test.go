package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingReconciler struct {
	calls atomic.Int32
	err   error
}

func (c *countingReconciler) ReconcileAll(ctx context.Context) (int64, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestInvitationReconcilerRunsUntilStopped(t *testing.T) {
	svc := &countingReconciler{}
	job := NewInvitationReconciler(svc, 10*time.Millisecond)

	go job.Start()

	assert.Eventually(t, func() bool { return svc.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	job.Stop()
	calls := svc.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, svc.calls.Load())

	// a second stop is harmless
	job.Stop()
}

func TestInvitationReconcilerSurvivesErrors(t *testing.T) {
	svc := &countingReconciler{err: errors.New("database is down")}
	job := NewInvitationReconciler(svc, 5*time.Millisecond)

	go job.Start()
	assert.Eventually(t, func() bool { return svc.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	job.Stop()
}
