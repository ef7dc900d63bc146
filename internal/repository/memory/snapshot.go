// Package memory keeps the last good calendar snapshot in process memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
)

type snapshotRepository struct {
	mu            sync.RWMutex
	snapshot      *cleaner.Snapshot
	lastErr       error
	lastErrAt     time.Time
	lastAttemptAt time.Time
}

func NewSnapshotRepository() cleaner.SnapshotRepository {
	return &snapshotRepository{}
}

// Replace implements cleaner.SnapshotRepository. The stored snapshot is
// shared with readers and must not be modified afterwards.
func (r *snapshotRepository) Replace(ctx context.Context, snapshot cleaner.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = &snapshot
	r.lastErr = nil
	r.lastErrAt = time.Time{}
	r.lastAttemptAt = snapshot.FetchedAt
	return nil
}

// Current implements cleaner.SnapshotRepository.
func (r *snapshotRepository) Current(ctx context.Context) (cleaner.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snapshot == nil {
		return cleaner.Snapshot{}, cleaner.ErrNoSnapshot
	}
	return *r.snapshot, nil
}

// RecordFailure implements cleaner.SnapshotRepository. The current
// snapshot is left in place.
func (r *snapshotRepository) RecordFailure(ctx context.Context, err error, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = err
	r.lastErrAt = at
	r.lastAttemptAt = at
}

// Status implements cleaner.SnapshotRepository.
func (r *snapshotRepository) Status(ctx context.Context) cleaner.SyncStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var st cleaner.SyncStatus
	if r.snapshot != nil {
		fetched := r.snapshot.FetchedAt
		st.HasSnapshot = true
		st.FetchedAt = &fetched
		st.CleanerCount = len(r.snapshot.Cleaners)
	}
	if r.lastErr != nil {
		at := r.lastErrAt
		st.LastError = r.lastErr.Error()
		st.LastErrorAt = &at
	}
	if !r.lastAttemptAt.IsZero() {
		at := r.lastAttemptAt
		st.LastAttemptAt = &at
	}
	return st
}
