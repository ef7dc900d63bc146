package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cleanops/calendar-backend/internal/domain/booking"
	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/domain/slot"
	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
	"github.com/cleanops/calendar-backend/internal/pkg/selection"
	"github.com/cleanops/calendar-backend/internal/pkg/validator"
)

// Refresher reloads the snapshot after a booking was written.
type Refresher interface {
	Refresh(ctx context.Context) (cleaner.Snapshot, error)
}

type BookingServiceImpl struct {
	gateway   booking.Gateway
	repo      cleaner.SnapshotRepository
	refresher Refresher
	logger    *slog.Logger
}

func NewBookingService(gateway booking.Gateway, repo cleaner.SnapshotRepository, refresher Refresher, logger *slog.Logger) booking.BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingServiceImpl{
		gateway:   gateway,
		repo:      repo,
		refresher: refresher,
		logger:    logger.With("component", "booking"),
	}
}

// Book checks the request against the current snapshot, forwards it to the
// booking endpoint and refreshes the snapshot so the new job shows up.
func (s *BookingServiceImpl) Book(ctx context.Context, req booking.BookJobRequest) (*booking.BookJobResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.ServiceType == "" {
		req.ServiceType = booking.DefaultServiceType
	}

	snap, err := s.repo.Current(ctx)
	if err != nil {
		return nil, err
	}
	c, err := findCleaner(snap.Cleaners, req.CleanerID)
	if err != nil {
		return nil, err
	}
	date, _ := timegrid.ParseDate(req.Date)
	if key, ok := firstUnavailable(c, date, req.Hours()); !ok {
		return nil, fmt.Errorf("%w: %s on %s", booking.ErrSlotNotAvailable, key, req.Date)
	}

	resp, err := s.gateway.BookJob(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to book job: %w", err)
	}
	s.logger.Info("job booked",
		"cleaner_id", req.CleanerID,
		"date", req.Date,
		"time", req.Time,
		"duration", req.Duration,
		"job_number", resp.JobNumber,
	)

	if s.refresher != nil {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if _, err := s.refresher.Refresh(refreshCtx); err != nil {
			s.logger.Warn("refresh after booking failed", "error", err)
		}
	}
	return &resp, nil
}

func (s *BookingServiceImpl) CheckAvailability(ctx context.Context, req booking.AvailabilityRequest) (*booking.AvailabilityResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	resp, err := s.gateway.CheckAvailability(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	return &resp, nil
}

// Draft turns a finished drag over one cleaner's day into a booking request
// skeleton and reports whether every selected hour is still available.
func (s *BookingServiceImpl) Draft(ctx context.Context, req booking.SelectionRequest) (*booking.DraftResponse, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(req.CleanerID) {
		errs.Add("cleaner_id", "cleaner_id is required")
	}
	date, ok := validator.IsValidDate(req.Date)
	if !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	state, err := selection.Fold(req.Events)
	if err != nil {
		errs.Add("events", err.Error())
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	resp := &booking.DraftResponse{Selection: state}
	if state.Phase != selection.Selected {
		return resp, nil
	}

	snap, err := s.repo.Current(ctx)
	if err != nil {
		return nil, err
	}
	c, err := findCleaner(snap.Cleaners, req.CleanerID)
	if err != nil {
		return nil, err
	}

	first, _, _ := state.Range()
	resp.Request = &booking.BookJobRequest{
		CleanerID:   req.CleanerID,
		Date:        req.Date,
		Time:        first.Label(),
		ServiceType: booking.DefaultServiceType,
		Duration:    state.Duration(),
	}
	_, resp.Available = firstUnavailable(c, date, state.Hours())
	return resp, nil
}

func findCleaner(cleaners []cleaner.Cleaner, id string) (cleaner.Cleaner, error) {
	for _, c := range cleaners {
		if c.ID == id && !c.IsUnassigned() {
			return c, nil
		}
	}
	return cleaner.Cleaner{}, fmt.Errorf("%w: %s", cleaner.ErrCleanerNotFound, id)
}

// firstUnavailable returns the slot key of the first hour that is not
// Available, or ok when every hour is.
func firstUnavailable(c cleaner.Cleaner, date time.Time, hours []timegrid.Hour) (key string, ok bool) {
	sched := c.ScheduleFor(timegrid.WeekKey(date))
	day := timegrid.DayOf(date)
	for _, h := range hours {
		st, _ := sched.Status(day, h)
		if st.Kind != slot.Available {
			return timegrid.SlotKey(day, h), false
		}
	}
	return "", true
}
