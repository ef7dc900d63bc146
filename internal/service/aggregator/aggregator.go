// Package aggregator turns raw hourly slot values into period statuses,
// merged job spans and availability statistics.
//
// Every query reads only its arguments and recomputes from scratch, so a
// snapshot can be swapped between calls without any coordination.
package aggregator

import (
	"fmt"
	"log/slog"

	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/domain/slot"
	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
)

type Aggregator struct {
	logger *slog.Logger
}

// New returns an Aggregator that reports data problems to logger. A nil
// logger discards them.
func New(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Aggregator{logger: logger}
}

// PeriodResult is the status of one named period of one cleaner's day.
type PeriodResult struct {
	Period  timegrid.Period `json:"period"`
	Status  slot.Kind       `json:"status"`
	Booking *slot.Status    `json:"booking,omitempty"`
	// Conflict is set when the period held bookings of more than one job.
	Conflict bool `json:"conflict,omitempty"`
	// HasSchedule is false when no weekly schedule was submitted, which
	// lets callers tell "nothing submitted" apart from "unavailable".
	HasSchedule bool `json:"has_schedule"`
}

// Job returns the booked job number, or "".
func (r PeriodResult) Job() string {
	if r.Status != slot.Booked || r.Booking == nil {
		return ""
	}
	return r.Booking.Job
}

// HourCell is one decoded slot of a day.
type HourCell struct {
	Hour      timegrid.Hour `json:"-"`
	Label     string        `json:"hour"`
	Status    slot.Status   `json:"status"`
	Malformed bool          `json:"malformed,omitempty"`
}

func validDay(d timegrid.Day) error {
	if d.Abbrev() == "" {
		return fmt.Errorf("%w: %d", timegrid.ErrUnknownDay, int(d))
	}
	return nil
}

// HourCells decodes every slot of a day in hour order. Malformed values
// come back as NoData with Malformed set.
func (a *Aggregator) HourCells(sched *cleaner.WeeklySchedule, day timegrid.Day) ([]HourCell, error) {
	if err := validDay(day); err != nil {
		return nil, err
	}
	cells := make([]HourCell, 0, len(timegrid.Hours))
	for _, h := range timegrid.Hours {
		st, err := sched.Status(day, h)
		cells = append(cells, HourCell{Hour: h, Label: h.Label(), Status: st, Malformed: err != nil})
	}
	return cells, nil
}

// PeriodStatus decides the status of one period.
//
// The period is Booked only when every booking in it carries the same job
// number; the first booking is reported. Periods holding several jobs are
// flagged as a Conflict and then resolved like unbooked periods: Available
// if any slot is available, otherwise Unavailable. A missing schedule is
// Unavailable with HasSchedule false.
func (a *Aggregator) PeriodStatus(cleanerID string, sched *cleaner.WeeklySchedule, day timegrid.Day, period timegrid.Period) (PeriodResult, error) {
	hours, err := timegrid.PeriodHours(period)
	if err != nil {
		return PeriodResult{}, err
	}
	if err := validDay(day); err != nil {
		return PeriodResult{}, err
	}

	result := PeriodResult{Period: period, HasSchedule: sched != nil}
	var bookings []slot.Status
	anyAvailable := false

	for _, h := range hours {
		st, err := sched.Status(day, h)
		if err != nil {
			a.logger.Debug("ignoring malformed slot",
				"cleaner_id", cleanerID,
				"slot", timegrid.SlotKey(day, h),
				"error", err,
			)
			continue
		}
		switch st.Kind {
		case slot.Booked:
			bookings = append(bookings, st)
		case slot.Available:
			anyAvailable = true
		}
	}

	if len(bookings) > 0 {
		first := bookings[0]
		sameJob := true
		for _, b := range bookings[1:] {
			if !first.SameJob(b) {
				sameJob = false
				break
			}
		}
		if sameJob {
			result.Status = slot.Booked
			result.Booking = &first
			return result, nil
		}

		result.Conflict = true
		a.logger.Warn("period holds bookings for more than one job",
			"cleaner_id", cleanerID,
			"day", day.Abbrev(),
			"period", string(period),
			"jobs", jobNumbers(bookings),
		)
	}

	if anyAvailable {
		result.Status = slot.Available
	} else {
		result.Status = slot.Unavailable
	}
	return result, nil
}

// DayPeriods evaluates Morning, Afternoon and Evening in order.
func (a *Aggregator) DayPeriods(cleanerID string, sched *cleaner.WeeklySchedule, day timegrid.Day) ([3]PeriodResult, error) {
	var out [3]PeriodResult
	for i, p := range timegrid.Periods {
		r, err := a.PeriodStatus(cleanerID, sched, day, p)
		if err != nil {
			return out, err
		}
		out[i] = r
	}
	return out, nil
}

func jobNumbers(bookings []slot.Status) []string {
	seen := make(map[string]bool, len(bookings))
	var out []string
	for _, b := range bookings {
		if !seen[b.Job] {
			seen[b.Job] = true
			out = append(out, b.Job)
		}
	}
	return out
}
