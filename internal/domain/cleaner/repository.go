package cleaner

import (
	"context"
	"time"
)

// Snapshot is one successfully fetched copy of the calendar data.
type Snapshot struct {
	Cleaners  []Cleaner `json:"cleaners"`
	FetchedAt time.Time `json:"fetched_at"`
}

// SyncStatus reports snapshot freshness and the last refresh failure.
type SyncStatus struct {
	HasSnapshot   bool       `json:"has_snapshot"`
	FetchedAt     *time.Time `json:"fetched_at,omitempty"`
	CleanerCount  int        `json:"cleaner_count"`
	LastError     string     `json:"last_error,omitempty"`
	LastErrorAt   *time.Time `json:"last_error_at,omitempty"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
}

// SnapshotRepository holds the last good snapshot. Replace swaps it
// wholesale; failures never clear it.
type SnapshotRepository interface {
	Replace(ctx context.Context, snapshot Snapshot) error
	Current(ctx context.Context) (Snapshot, error)
	RecordFailure(ctx context.Context, err error, at time.Time)
	Status(ctx context.Context) SyncStatus
}

// Source fetches the full calendar data set.
type Source interface {
	FetchCalendarData(ctx context.Context) ([]Cleaner, error)
}
