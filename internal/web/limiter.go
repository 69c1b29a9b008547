package web

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/retailetl/internal/analytics"
)

// ErrTooManySnapshots is returned when every snapshot slot stays occupied
// for the whole wait. Clients should retry after a short delay.
var ErrTooManySnapshots = errors.New("too many concurrent snapshot reads, please try again later")

// snapshotLimiter bounds how many full-table snapshots are held in memory at
// once. Requests wait up to maxWait for a slot.
type snapshotLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

func newSnapshotLimiter(maxConcurrent int, maxWait time.Duration) *snapshotLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	if maxWait <= 0 {
		maxWait = 10 * time.Second
	}
	return &snapshotLimiter{slots: make(chan struct{}, maxConcurrent), maxWait: maxWait}
}

// acquire takes a slot. The caller must release it exactly once.
func (l *snapshotLimiter) acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManySnapshots
	}
}

func (l *snapshotLimiter) release() {
	l.active.Add(-1)
	<-l.slots
}

// inFlight returns the number of held slots.
func (l *snapshotLimiter) inFlight() int {
	return int(l.active.Load())
}

// waitForDrain blocks until no slot is held or ctx ends.
func (l *snapshotLimiter) waitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.inFlight() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// snapshot reads from src while holding a slot.
func (l *snapshotLimiter) snapshot(ctx context.Context, src Snapshotter) (*analytics.Dataset, error) {
	if err := l.acquire(ctx); err != nil {
		return nil, err
	}
	defer l.release()
	return src.Snapshot(ctx)
}
