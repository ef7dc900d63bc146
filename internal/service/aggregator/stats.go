package aggregator

import (
	"fmt"
	"math"
	"time"

	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/domain/slot"
	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
)

// Counts tallies engaged slots. Unavailable and NoData slots count in
// neither bucket.
type Counts struct {
	Available int `json:"available"`
	Booked    int `json:"booked"`
}

func (c Counts) Add(o Counts) Counts {
	return Counts{Available: c.Available + o.Available, Booked: c.Booked + o.Booked}
}

func (c Counts) Total() int { return c.Available + c.Booked }

func (c Counts) Utilization() int { return Utilization(c.Available, c.Booked) }

// Utilization is the booked share of engaged slots as a rounded
// percentage, 0 when nothing is engaged.
func Utilization(available, booked int) int {
	total := available + booked
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(booked) / float64(total)))
}

// DayCounts tallies the 13 slots of one day.
func (a *Aggregator) DayCounts(sched *cleaner.WeeklySchedule, day timegrid.Day) Counts {
	var c Counts
	if sched == nil {
		return c
	}
	for _, h := range timegrid.Hours {
		st, _ := sched.Status(day, h)
		switch st.Kind {
		case slot.Available:
			c.Available++
		case slot.Booked:
			c.Booked++
		}
	}
	return c
}

// WeekCounts sums DayCounts over the seven days.
func (a *Aggregator) WeekCounts(sched *cleaner.WeeklySchedule) Counts {
	var c Counts
	for _, d := range timegrid.Days {
		c = c.Add(a.DayCounts(sched, d))
	}
	return c
}

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Scope is a half-open range of calendar dates.
type Scope struct {
	Granularity Granularity
	Start       time.Time
	End         time.Time
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func DayScope(date time.Time) Scope {
	start := midnight(date)
	return Scope{Granularity: GranularityDay, Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekScope covers the Monday-first week containing date.
func WeekScope(date time.Time) Scope {
	start := timegrid.WeekStart(midnight(date))
	return Scope{Granularity: GranularityWeek, Start: start, End: start.AddDate(0, 0, 7)}
}

func MonthScope(year int, month time.Month) Scope {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Scope{Granularity: GranularityMonth, Start: start, End: start.AddDate(0, 1, 0)}
}

// ParseScope builds a scope of granularity g around date.
func ParseScope(g Granularity, date time.Time) (Scope, error) {
	switch g {
	case GranularityDay:
		return DayScope(date), nil
	case GranularityWeek, "":
		return WeekScope(date), nil
	case GranularityMonth:
		return MonthScope(date.Year(), date.Month()), nil
	default:
		return Scope{}, fmt.Errorf("%w: %q", ErrUnknownGranularity, string(g))
	}
}

// Dates lists every date in the scope.
func (s Scope) Dates() []time.Time {
	var out []time.Time
	for d := s.Start; d.Before(s.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// CleanerCounts tallies one cleaner over the scope. Each date is looked up
// in the schedule of its own ISO week; weeks without a schedule add zero.
// The second result reports whether any such schedule existed.
func (a *Aggregator) CleanerCounts(c cleaner.Cleaner, scope Scope) (Counts, bool) {
	var total Counts
	hasSchedule := false
	for _, date := range scope.Dates() {
		sched := c.ScheduleFor(timegrid.WeekKey(date))
		if sched == nil {
			continue
		}
		hasSchedule = true
		total = total.Add(a.DayCounts(sched, timegrid.DayOf(date)))
	}
	return total, hasSchedule
}

// Summary aggregates a cleaner list over a scope.
type Summary struct {
	Granularity       Granularity `json:"granularity"`
	From              string      `json:"from"`
	To                string      `json:"to"`
	TotalCleaners     int         `json:"total_cleaners"`
	AvailableCleaners int         `json:"available_cleaners"`
	AvailableSlots    int         `json:"available_slots"`
	BookedSlots       int         `json:"booked_slots"`
	Utilization       int         `json:"utilization"`
}

// Stats aggregates cleaners over scope. The unassigned pseudo-cleaner adds
// its booked slots but is not a cleaner: it is left out of the cleaner
// counts and of available slots.
func (a *Aggregator) Stats(cleaners []cleaner.Cleaner, scope Scope) Summary {
	s := Summary{
		Granularity: scope.Granularity,
		From:        scope.Start.Format(timegrid.DateLayout),
		To:          scope.End.AddDate(0, 0, -1).Format(timegrid.DateLayout),
	}
	for _, c := range cleaners {
		counts, _ := a.CleanerCounts(c, scope)
		s.BookedSlots += counts.Booked
		if c.IsUnassigned() {
			continue
		}
		s.TotalCleaners++
		s.AvailableSlots += counts.Available
		if counts.Available > 0 {
			s.AvailableCleaners++
		}
	}
	s.Utilization = Utilization(s.AvailableSlots, s.BookedSlots)
	return s
}

// CleanerSummary feeds a per-cleaner card.
type CleanerSummary struct {
	Counts      Counts `json:"counts"`
	Utilization int    `json:"utilization"`
	HasSchedule bool   `json:"has_schedule"`
}

func (a *Aggregator) CleanerStats(c cleaner.Cleaner, scope Scope) CleanerSummary {
	counts, has := a.CleanerCounts(c, scope)
	return CleanerSummary{Counts: counts, Utilization: counts.Utilization(), HasSchedule: has}
}
