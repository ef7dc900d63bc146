package aggregator

import (
	"encoding/json"

	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/domain/slot"
	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
)

// TimeSpan is a contiguous run of slots booked for one job. End is
// exclusive; a run that reaches the last slot ends at timegrid.ClosingHour.
type TimeSpan struct {
	Start timegrid.Hour
	End   timegrid.Hour
	Job   string
}

func (s TimeSpan) Hours() int { return int(s.End - s.Start) }

func (s TimeSpan) Contains(h timegrid.Hour) bool { return h >= s.Start && h < s.End }

func (s TimeSpan) Label() string { return s.Start.Label() + "-" + s.End.Label() }

func (s TimeSpan) overlaps(first, last timegrid.Hour) bool {
	return s.Start <= last && s.End > first
}

func (s TimeSpan) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Job   string `json:"job"`
		Hours int    `json:"hours"`
		Label string `json:"label"`
	}{s.Start.Label(), s.End.Label(), s.Job, s.Hours(), s.Label()})
}

// JobRuns scans the whole day in hour order and returns every maximal run
// of slots booked for job. Any slot with a different status ends a run.
func (a *Aggregator) JobRuns(sched *cleaner.WeeklySchedule, day timegrid.Day, job string) []TimeSpan {
	if job == "" || sched == nil {
		return nil
	}
	var runs []TimeSpan
	var cur *TimeSpan
	for _, h := range timegrid.Hours {
		st, _ := sched.Status(day, h)
		if st.IsBooked() && st.Job == job {
			if cur == nil {
				cur = &TimeSpan{Start: h, Job: job}
			}
			cur.End = timegrid.EndOf(h)
			continue
		}
		if cur != nil {
			runs = append(runs, *cur)
			cur = nil
		}
	}
	if cur != nil {
		runs = append(runs, *cur)
	}
	return runs
}

// ActualTimeRange returns the first run of job in the day. The scan is not
// limited to a period, so a job crossing a period boundary is one span.
func (a *Aggregator) ActualTimeRange(sched *cleaner.WeeklySchedule, day timegrid.Day, job string) (TimeSpan, bool) {
	runs := a.JobRuns(sched, day, job)
	if len(runs) == 0 {
		return TimeSpan{}, false
	}
	return runs[0], true
}

// DaySpans returns every booked run of the day, whatever the job.
func (a *Aggregator) DaySpans(sched *cleaner.WeeklySchedule, day timegrid.Day) []TimeSpan {
	if sched == nil {
		return nil
	}
	var spans []TimeSpan
	var cur *TimeSpan
	for _, h := range timegrid.Hours {
		st, _ := sched.Status(day, h)
		if cur != nil && (!st.IsBooked() || st.Job != cur.Job) {
			spans = append(spans, *cur)
			cur = nil
		}
		if !st.IsBooked() {
			continue
		}
		if cur == nil {
			cur = &TimeSpan{Start: h, Job: st.Job}
		}
		cur.End = timegrid.EndOf(h)
	}
	if cur != nil {
		spans = append(spans, *cur)
	}
	return spans
}

// Segment is one rendered cell of a day row: one or more adjacent periods.
type Segment struct {
	Periods []timegrid.Period
	Colspan int
	Result  PeriodResult
}

func sameJob(x, y PeriodResult) bool {
	return x.Job() != "" && x.Job() == y.Job()
}

// MergePeriods collapses adjacent periods booked for the same job into one
// segment. Checks run in a fixed order: all three periods, then
// Morning+Afternoon, then Afternoon+Evening; otherwise each period stands
// alone.
func MergePeriods(morning, afternoon, evening PeriodResult) []Segment {
	switch {
	case sameJob(morning, afternoon) && sameJob(afternoon, evening):
		return []Segment{
			{Periods: []timegrid.Period{timegrid.Morning, timegrid.Afternoon, timegrid.Evening}, Colspan: 3, Result: morning},
		}
	case sameJob(morning, afternoon):
		return []Segment{
			{Periods: []timegrid.Period{timegrid.Morning, timegrid.Afternoon}, Colspan: 2, Result: morning},
			{Periods: []timegrid.Period{timegrid.Evening}, Colspan: 1, Result: evening},
		}
	case sameJob(afternoon, evening):
		return []Segment{
			{Periods: []timegrid.Period{timegrid.Morning}, Colspan: 1, Result: morning},
			{Periods: []timegrid.Period{timegrid.Afternoon, timegrid.Evening}, Colspan: 2, Result: afternoon},
		}
	default:
		return []Segment{
			{Periods: []timegrid.Period{timegrid.Morning}, Colspan: 1, Result: morning},
			{Periods: []timegrid.Period{timegrid.Afternoon}, Colspan: 1, Result: afternoon},
			{Periods: []timegrid.Period{timegrid.Evening}, Colspan: 1, Result: evening},
		}
	}
}

// Block is a render-ready segment with the actual booked time range.
type Block struct {
	Periods     []timegrid.Period `json:"periods"`
	Colspan     int               `json:"colspan"`
	Status      slot.Kind         `json:"status"`
	Booking     *slot.Status      `json:"booking,omitempty"`
	Span        *TimeSpan         `json:"span,omitempty"`
	Conflict    bool              `json:"conflict,omitempty"`
	HasSchedule bool              `json:"has_schedule"`
}

// DayBlocks evaluates the three periods of a day, merges them and attaches
// to every booked block the run of its job that falls inside the block.
func (a *Aggregator) DayBlocks(cleanerID string, sched *cleaner.WeeklySchedule, day timegrid.Day) ([]Block, error) {
	periods, err := a.DayPeriods(cleanerID, sched, day)
	if err != nil {
		return nil, err
	}

	segments := MergePeriods(periods[0], periods[1], periods[2])
	blocks := make([]Block, 0, len(segments))
	for _, seg := range segments {
		b := Block{
			Periods:     seg.Periods,
			Colspan:     seg.Colspan,
			Status:      seg.Result.Status,
			Booking:     seg.Result.Booking,
			Conflict:    seg.Result.Conflict,
			HasSchedule: seg.Result.HasSchedule,
		}
		if job := seg.Result.Job(); job != "" {
			if span, ok := a.spanWithin(sched, day, job, seg.Periods); ok {
				b.Span = &span
			}
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func (a *Aggregator) spanWithin(sched *cleaner.WeeklySchedule, day timegrid.Day, job string, periods []timegrid.Period) (TimeSpan, bool) {
	runs := a.JobRuns(sched, day, job)
	if len(runs) == 0 {
		return TimeSpan{}, false
	}
	first, _ := timegrid.PeriodHours(periods[0])
	last, _ := timegrid.PeriodHours(periods[len(periods)-1])
	for _, r := range runs {
		if r.overlaps(first[0], last[len(last)-1]) {
			return r, true
		}
	}
	return runs[0], true
}
