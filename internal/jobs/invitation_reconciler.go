package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Reconciler is the part of the invitation service the job drives
type Reconciler interface {
	ReconcileAll(ctx context.Context) (int64, error)
}

// InvitationReconciler periodically revokes duplicate active invitations
type InvitationReconciler struct {
	service  Reconciler
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewInvitationReconciler creates a new reconciler job
func NewInvitationReconciler(service Reconciler, interval time.Duration) *InvitationReconciler {
	return &InvitationReconciler{
		service:  service,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one pass immediately, then one per interval, until Stop is called.
// It blocks; run it in its own goroutine.
func (r *InvitationReconciler) Start() {
	defer close(r.done)
	slog.Info("starting invitation reconciler", "interval", r.interval)

	r.runOnce()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.runOnce()
		case <-r.stopChan:
			slog.Info("stopping invitation reconciler")
			return
		}
	}
}

// Stop stops the loop and waits for the running pass to finish
func (r *InvitationReconciler) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
	})
	<-r.done
}

func (r *InvitationReconciler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()

	revoked, err := r.service.ReconcileAll(ctx)
	if err != nil {
		slog.Error("invitation reconciliation failed", "err", err)
		return
	}
	if revoked > 0 {
		slog.Warn("reconciler revoked duplicate active invitations", "revoked", revoked)
	}
}
