package fixtures

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/cleanops/calendar-backend/internal/domain/booking"
	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/domain/slot"
	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
)

// MockSource stands in for the webhook endpoints. Bookings it accepts are
// written into its own copy of the data set and show up on the next fetch.
type MockSource struct {
	mu       sync.Mutex
	cleaners []cleaner.Cleaner
	nextJob  int
}

func NewMockSource(weekOf time.Time) *MockSource {
	return &MockSource{cleaners: Cleaners(weekOf), nextJob: 50001}
}

func (m *MockSource) FetchCalendarData(ctx context.Context) ([]cleaner.Cleaner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cleaner.CloneAll(m.cleaners), nil
}

func (m *MockSource) BookJob(ctx context.Context, req booking.BookJobRequest) (booking.BookJobResponse, error) {
	if err := ctx.Err(); err != nil {
		return booking.BookJobResponse{}, err
	}
	date, err := timegrid.ParseDate(req.Date)
	if err != nil {
		return booking.BookJobResponse{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.find(req.CleanerID)
	if c == nil {
		return booking.BookJobResponse{}, fmt.Errorf("%w: %s", cleaner.ErrCleanerNotFound, req.CleanerID)
	}
	sched := c.ScheduleFor(timegrid.WeekKey(date))
	day := timegrid.DayOf(date)
	hours := req.Hours()
	for _, h := range hours {
		st, _ := sched.Status(day, h)
		if st.Kind != slot.Available {
			return booking.BookJobResponse{Success: false, Message: "slot " + timegrid.SlotKey(day, h) + " is not available"},
				fmt.Errorf("%w: %s", booking.ErrSlotNotAvailable, timegrid.SlotKey(day, h))
		}
	}

	job := fmt.Sprintf("%d", m.nextJob)
	m.nextJob++
	for _, h := range hours {
		sched.Set(day, h, slot.NewBooking(job, req.Customer, req.Address))
	}
	return booking.BookJobResponse{Success: true, JobNumber: job, Message: "booked"}, nil
}

// CheckAvailability ranks cleaners that are free at the requested hour by
// how much of that day they still have open.
func (m *MockSource) CheckAvailability(ctx context.Context, req booking.AvailabilityRequest) (booking.AvailabilityResponse, error) {
	if err := ctx.Err(); err != nil {
		return booking.AvailabilityResponse{}, err
	}
	date, err := timegrid.ParseDate(req.Date)
	if err != nil {
		return booking.AvailabilityResponse{}, err
	}
	hour, err := timegrid.ParseGridHour(req.TimeSlot)
	if err != nil {
		return booking.AvailabilityResponse{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	day := timegrid.DayOf(date)
	resp := booking.AvailabilityResponse{Date: req.Date, TimeSlot: req.TimeSlot, Candidates: []booking.Candidate{}}
	for _, c := range m.cleaners {
		if c.IsUnassigned() || (req.Region != "" && c.Region != req.Region) {
			continue
		}
		sched := c.ScheduleFor(timegrid.WeekKey(date))
		if st, _ := sched.Status(day, hour); st.Kind != slot.Available {
			continue
		}
		open := 0
		for _, h := range timegrid.Hours {
			if st, _ := sched.Status(day, h); st.Kind == slot.Available {
				open++
			}
		}
		resp.Candidates = append(resp.Candidates, booking.Candidate{
			CleanerID: c.ID,
			Name:      c.DisplayName(),
			Region:    c.Region,
			Score:     math.Round(100*float64(open)/float64(len(timegrid.Hours))) / 100,
			Reason:    fmt.Sprintf("%d open hours on %s", open, day.Abbrev()),
		})
	}
	sort.SliceStable(resp.Candidates, func(i, j int) bool {
		return resp.Candidates[i].Score > resp.Candidates[j].Score
	})
	return resp, nil
}

func (m *MockSource) find(id string) *cleaner.Cleaner {
	for i := range m.cleaners {
		if m.cleaners[i].ID == id {
			return &m.cleaners[i]
		}
	}
	return nil
}
