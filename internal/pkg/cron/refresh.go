package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/pkg/sse"
)

// SnapshotEvent is published on sse.TopicCalendar after every successful
// refresh.
type SnapshotEvent struct {
	FetchedAt    time.Time `json:"fetched_at"`
	CleanerCount int       `json:"cleaner_count"`
	Issues       int       `json:"issues"`
}

// RefreshJobs pulls the calendar data set into the snapshot repository.
type RefreshJobs struct {
	source  cleaner.Source
	repo    cleaner.SnapshotRepository
	regions *cleaner.RegionDirectory
	hub     *sse.Hub
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	inflight *flight
}

// flight is one fetch shared by every caller that joined it. It is
// cancelled only when all of them have left.
type flight struct {
	cancel  context.CancelFunc
	done    chan struct{}
	waiters int
	snap    cleaner.Snapshot
	err     error
}

func NewRefreshJobs(
	source cleaner.Source,
	repo cleaner.SnapshotRepository,
	regions *cleaner.RegionDirectory,
	hub *sse.Hub,
	logger *slog.Logger,
) *RefreshJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &RefreshJobs{
		source:  source,
		repo:    repo,
		regions: regions,
		hub:     hub,
		logger:  logger.With("component", "refresh"),
		now:     time.Now,
	}
}

func (j *RefreshJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("refresh_calendar_data", interval, func(ctx context.Context) error {
		_, err := j.Refresh(ctx)
		return err
	})
}

// Refresh fetches, normalizes and stores a new snapshot. Concurrent calls
// share one fetch, which runs on its own context: a caller that gives up
// only stops waiting. Once every caller has left, the fetch is cancelled
// and its result discarded. A failed fetch keeps the previous snapshot and
// is recorded.
func (j *RefreshJobs) Refresh(ctx context.Context) (cleaner.Snapshot, error) {
	f := j.join(ctx)
	select {
	case <-ctx.Done():
		j.leave(f)
		return cleaner.Snapshot{}, ctx.Err()
	case <-f.done:
		return f.snap, f.err
	}
}

func (j *RefreshJobs) join(ctx context.Context) *flight {
	j.mu.Lock()
	defer j.mu.Unlock()

	f := j.inflight
	if f == nil {
		flightCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{cancel: cancel, done: make(chan struct{})}
		j.inflight = f
		go j.run(flightCtx, f)
	}
	f.waiters++
	return f
}

func (j *RefreshJobs) leave(f *flight) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if j.inflight == f {
		j.inflight = nil
	}
}

func (j *RefreshJobs) run(ctx context.Context, f *flight) {
	f.snap, f.err = j.refresh(ctx)

	j.mu.Lock()
	if j.inflight == f {
		j.inflight = nil
	}
	j.mu.Unlock()

	close(f.done)
	f.cancel()
}

func (j *RefreshJobs) refresh(ctx context.Context) (cleaner.Snapshot, error) {
	start := j.now()
	data, err := j.source.FetchCalendarData(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return cleaner.Snapshot{}, err
		}
		j.repo.RecordFailure(context.WithoutCancel(ctx), err, j.now())
		return cleaner.Snapshot{}, err
	}

	cleaners, issues := cleaner.Normalize(data)
	for _, issue := range issues {
		j.logger.Warn("schedule corrected during refresh",
			"cleaner_id", issue.CleanerID,
			"week_starting", issue.WeekStarting,
			"error", issue.Err,
		)
	}

	if err := ctx.Err(); err != nil {
		j.logger.Info("refresh cancelled, discarding result")
		return cleaner.Snapshot{}, err
	}

	snapshot := cleaner.Snapshot{Cleaners: cleaners, FetchedAt: j.now()}
	if err := j.repo.Replace(ctx, snapshot); err != nil {
		return cleaner.Snapshot{}, err
	}
	j.regions.Observe(cleaners)

	if j.hub != nil {
		j.hub.Publish(sse.TopicCalendar, sse.Event{
			Event: "snapshot",
			Data: SnapshotEvent{
				FetchedAt:    snapshot.FetchedAt,
				CleanerCount: len(cleaners),
				Issues:       len(issues),
			},
		})
	}

	j.logger.Info("calendar data refreshed",
		"cleaners", len(cleaners),
		"issues", len(issues),
		"duration", j.now().Sub(start),
	)
	return snapshot, nil
}
