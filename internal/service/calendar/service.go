// Package calendar projects the current snapshot into the hourly, daily,
// weekly, monthly and directory views. It filters and reshapes; every
// scheduling rule lives in the aggregator.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/cleanops/calendar-backend/internal/domain/calendar"
	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/domain/timegrid"
	"github.com/cleanops/calendar-backend/internal/service/aggregator"
	"github.com/cleanops/calendar-backend/internal/service/filter"
	"golang.org/x/sync/errgroup"
)

// rowWorkers bounds the goroutines used to build weekly rows.
const rowWorkers = 8

type CalendarServiceImpl struct {
	repo    cleaner.SnapshotRepository
	regions *cleaner.RegionDirectory
	agg     *aggregator.Aggregator
	now     func() time.Time
}

func NewCalendarService(repo cleaner.SnapshotRepository, regions *cleaner.RegionDirectory, agg *aggregator.Aggregator) calendar.CalendarService {
	return &CalendarServiceImpl{
		repo:    repo,
		regions: regions,
		agg:     agg,
		now:     time.Now,
	}
}

type cleanerSet struct {
	all        []cleaner.Cleaner
	assigned   []cleaner.Cleaner
	unassigned *cleaner.Cleaner
}

func (s *CalendarServiceImpl) load(ctx context.Context, criteria cleaner.Criteria) (cleanerSet, error) {
	snap, err := s.repo.Current(ctx)
	if err != nil {
		return cleanerSet{}, fmt.Errorf("failed to load calendar data: %w", err)
	}
	all := filter.Filter(snap.Cleaners, criteria)
	assigned, unassigned := filter.Split(all)
	return cleanerSet{all: all, assigned: assigned, unassigned: unassigned}, nil
}

// parseDate parses YYYY-MM-DD, defaults to today
func (s *CalendarServiceImpl) parseDate(date string) (time.Time, error) {
	if date == "" {
		now := s.now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return timegrid.ParseDate(date)
}

func (s *CalendarServiceImpl) ref(c cleaner.Cleaner) calendar.CleanerRef {
	return calendar.CleanerRef{
		ID:       c.ID,
		Name:     c.Name,
		FullName: c.FullName,
		Region:   s.regions.Lookup(c.Region),
		Status:   c.Status,
		Tier:     c.Tier(),
	}
}

func periodHeaders() []calendar.PeriodHeader {
	out := make([]calendar.PeriodHeader, 0, len(timegrid.Periods))
	for _, p := range timegrid.Periods {
		out = append(out, calendar.PeriodHeader{Name: string(p), Range: p.Range()})
	}
	return out
}

func header(date time.Time) calendar.DayHeader {
	return calendar.DayHeader{Date: date.Format(timegrid.DateLayout), Day: timegrid.DayOf(date).Abbrev()}
}

func (s *CalendarServiceImpl) Hourly(ctx context.Context, q calendar.ViewQuery) (*calendar.HourlyView, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	date, err := s.parseDate(q.Date)
	if err != nil {
		return nil, err
	}
	sel, err := s.load(ctx, q.Criteria)
	if err != nil {
		return nil, err
	}

	h := header(date)
	view := &calendar.HourlyView{
		Date:  h.Date,
		Day:   h.Day,
		Hours: make([]string, 0, len(timegrid.Hours)),
		Rows:  make([]calendar.HourlyRow, 0, len(sel.assigned)),
		Stats: toSummary(s.agg.Stats(sel.all, aggregator.DayScope(date))),
	}
	for _, hour := range timegrid.Hours {
		view.Hours = append(view.Hours, hour.Label())
	}

	for _, c := range sel.assigned {
		row, err := s.hourlyRow(c, date)
		if err != nil {
			return nil, err
		}
		view.Rows = append(view.Rows, row)
	}
	if sel.unassigned != nil {
		row, err := s.hourlyRow(*sel.unassigned, date)
		if err != nil {
			return nil, err
		}
		view.Unassigned = &row
	}
	return view, nil
}

func (s *CalendarServiceImpl) hourlyRow(c cleaner.Cleaner, date time.Time) (calendar.HourlyRow, error) {
	sched := c.ScheduleFor(timegrid.WeekKey(date))
	day := timegrid.DayOf(date)
	cells, err := s.agg.HourCells(sched, day)
	if err != nil {
		return calendar.HourlyRow{}, err
	}
	return calendar.HourlyRow{
		Cleaner:     s.ref(c),
		HasSchedule: sched != nil,
		Cells:       toCells(cells),
		Spans:       toSpans(s.agg.DaySpans(sched, day)),
		Counts:      toCounts(s.agg.DayCounts(sched, day)),
	}, nil
}

func (s *CalendarServiceImpl) Daily(ctx context.Context, q calendar.ViewQuery) (*calendar.DailyView, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	date, err := s.parseDate(q.Date)
	if err != nil {
		return nil, err
	}
	sel, err := s.load(ctx, q.Criteria)
	if err != nil {
		return nil, err
	}

	h := header(date)
	view := &calendar.DailyView{
		Date:    h.Date,
		Day:     h.Day,
		Periods: periodHeaders(),
		Rows:    make([]calendar.DailyRow, 0, len(sel.assigned)),
		Stats:   toSummary(s.agg.Stats(sel.all, aggregator.DayScope(date))),
	}
	for _, c := range sel.assigned {
		row, err := s.dailyRow(c, date)
		if err != nil {
			return nil, err
		}
		view.Rows = append(view.Rows, row)
	}
	if sel.unassigned != nil {
		row, err := s.dailyRow(*sel.unassigned, date)
		if err != nil {
			return nil, err
		}
		view.Unassigned = &row
	}
	return view, nil
}

func (s *CalendarServiceImpl) dailyRow(c cleaner.Cleaner, date time.Time) (calendar.DailyRow, error) {
	sched := c.ScheduleFor(timegrid.WeekKey(date))
	day := timegrid.DayOf(date)
	blocks, err := s.agg.DayBlocks(c.ID, sched, day)
	if err != nil {
		return calendar.DailyRow{}, err
	}
	return calendar.DailyRow{
		Cleaner:     s.ref(c),
		HasSchedule: sched != nil,
		Blocks:      toBlocks(blocks),
		Counts:      toCounts(s.agg.DayCounts(sched, day)),
	}, nil
}

// Weekly builds one row per cleaner for the Monday-first week containing
// the query date. Rows are computed concurrently and kept in input order.
func (s *CalendarServiceImpl) Weekly(ctx context.Context, q calendar.ViewQuery) (*calendar.WeeklyView, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	date, err := s.parseDate(q.Date)
	if err != nil {
		return nil, err
	}
	sel, err := s.load(ctx, q.Criteria)
	if err != nil {
		return nil, err
	}

	monday := timegrid.WeekStart(date)
	view := &calendar.WeeklyView{
		WeekStarting: monday.Format(timegrid.DateLayout),
		Days:         make([]calendar.DayHeader, 0, len(timegrid.Days)),
		Periods:      periodHeaders(),
		Rows:         make([]calendar.WeeklyRow, len(sel.assigned)),
		Stats:        toSummary(s.agg.Stats(sel.all, aggregator.WeekScope(date))),
	}
	for i := range timegrid.Days {
		view.Days = append(view.Days, header(monday.AddDate(0, 0, i)))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rowWorkers)
	for i, c := range sel.assigned {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row, err := s.weeklyRow(c, monday)
			if err != nil {
				return err
			}
			view.Rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if sel.unassigned != nil {
		row, err := s.weeklyRow(*sel.unassigned, monday)
		if err != nil {
			return nil, err
		}
		view.Unassigned = &row
	}
	return view, nil
}

func (s *CalendarServiceImpl) weeklyRow(c cleaner.Cleaner, monday time.Time) (calendar.WeeklyRow, error) {
	sched := c.ScheduleFor(timegrid.WeekKey(monday))
	row := calendar.WeeklyRow{
		Cleaner:     s.ref(c),
		HasSchedule: sched != nil,
		Days:        make([]calendar.WeeklyCell, 0, len(timegrid.Days)),
	}
	week := s.agg.WeekCounts(sched)
	row.Counts = toCounts(week)
	row.Utilization = week.Utilization()

	for i, d := range timegrid.Days {
		blocks, err := s.agg.DayBlocks(c.ID, sched, d)
		if err != nil {
			return calendar.WeeklyRow{}, err
		}
		row.Days = append(row.Days, calendar.WeeklyCell{
			DayHeader: header(monday.AddDate(0, 0, i)),
			Blocks:    toBlocks(blocks),
			Counts:    toCounts(s.agg.DayCounts(sched, d)),
		})
	}
	return row, nil
}

// Monthly lays the month out as Monday-first weeks. Leading and trailing
// days from the neighbouring months pad the grid and carry no counts.
func (s *CalendarServiceImpl) Monthly(ctx context.Context, q calendar.MonthQuery) (*calendar.MonthlyView, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	year, month := s.parseMonth(q.Month)
	sel, err := s.load(ctx, q.Criteria)
	if err != nil {
		return nil, err
	}

	scope := aggregator.MonthScope(year, month)
	view := &calendar.MonthlyView{
		Month: scope.Start.Format("2006-01"),
		Days:  make([]string, 0, len(timegrid.Days)),
		Stats: toSummary(s.agg.Stats(sel.all, scope)),
	}
	for _, d := range timegrid.Days {
		view.Days = append(view.Days, d.Abbrev())
	}

	gridStart := timegrid.WeekStart(scope.Start)
	gridEnd := timegrid.WeekStart(scope.End.AddDate(0, 0, -1)).AddDate(0, 0, 7)

	var week []calendar.MonthDay
	for d := gridStart; d.Before(gridEnd); d = d.AddDate(0, 0, 1) {
		cell := calendar.MonthDay{
			DayHeader:  header(d),
			DayOfMonth: d.Day(),
			InMonth:    d.Month() == month,
		}
		if cell.InMonth {
			sum := s.agg.Stats(sel.all, aggregator.DayScope(d))
			cell.AvailableCleaners = sum.AvailableCleaners
			cell.AvailableSlots = sum.AvailableSlots
			cell.BookedSlots = sum.BookedSlots
			cell.Utilization = sum.Utilization
		}
		week = append(week, cell)
		if len(week) == len(timegrid.Days) {
			view.Weeks = append(view.Weeks, week)
			week = nil
		}
	}
	return view, nil
}

// parseMonth parses YYYY-MM format, defaults to current month
func (s *CalendarServiceImpl) parseMonth(month string) (int, time.Month) {
	if month != "" {
		if parsed, err := time.Parse("2006-01", month); err == nil {
			return parsed.Year(), parsed.Month()
		}
	}
	now := s.now().UTC()
	return now.Year(), now.Month()
}

func (s *CalendarServiceImpl) Stats(ctx context.Context, q calendar.StatsQuery) (*calendar.Summary, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	date, err := s.parseDate(q.Date)
	if err != nil {
		return nil, err
	}
	scope, err := aggregator.ParseScope(aggregator.Granularity(q.Scope), date)
	if err != nil {
		return nil, err
	}
	sel, err := s.load(ctx, q.Criteria)
	if err != nil {
		return nil, err
	}
	summary := toSummary(s.agg.Stats(sel.all, scope))
	return &summary, nil
}

// Directory returns a card per real cleaner with week counts and the
// blocks of the query date. The unassigned record gets no card.
func (s *CalendarServiceImpl) Directory(ctx context.Context, q calendar.ViewQuery) (*calendar.DirectoryView, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	date, err := s.parseDate(q.Date)
	if err != nil {
		return nil, err
	}
	sel, err := s.load(ctx, q.Criteria)
	if err != nil {
		return nil, err
	}

	week := aggregator.WeekScope(date)
	view := &calendar.DirectoryView{
		Date:         date.Format(timegrid.DateLayout),
		WeekStarting: week.Start.Format(timegrid.DateLayout),
		Cards:        make([]calendar.CleanerCard, 0, len(sel.assigned)),
		Stats:        toSummary(s.agg.Stats(sel.all, week)),
	}
	for _, c := range sel.assigned {
		stats := s.agg.CleanerStats(c, week)
		today, err := s.agg.DayBlocks(c.ID, c.ScheduleFor(timegrid.WeekKey(date)), timegrid.DayOf(date))
		if err != nil {
			return nil, err
		}
		view.Cards = append(view.Cards, calendar.CleanerCard{
			CleanerRef:  s.ref(c),
			Phone:       c.Phone,
			Email:       c.Email,
			Rate:        c.Rate,
			Notes:       c.Notes,
			JobCount:    c.JobCount,
			HasSchedule: stats.HasSchedule,
			Week:        toCounts(stats.Counts),
			Utilization: stats.Utilization,
			Today:       toBlocks(today),
		})
	}
	return view, nil
}

func (s *CalendarServiceImpl) Regions(ctx context.Context) ([]cleaner.Region, error) {
	return s.regions.List(), nil
}

func (s *CalendarServiceImpl) Status(ctx context.Context) cleaner.SyncStatus {
	return s.repo.Status(ctx)
}

func toCounts(c aggregator.Counts) calendar.Counts {
	return calendar.Counts{Available: c.Available, Booked: c.Booked}
}

func toSummary(s aggregator.Summary) calendar.Summary {
	return calendar.Summary{
		Granularity:       string(s.Granularity),
		From:              s.From,
		To:                s.To,
		TotalCleaners:     s.TotalCleaners,
		AvailableCleaners: s.AvailableCleaners,
		AvailableSlots:    s.AvailableSlots,
		BookedSlots:       s.BookedSlots,
		Utilization:       s.Utilization,
	}
}

func toCells(cells []aggregator.HourCell) []calendar.HourCell {
	out := make([]calendar.HourCell, 0, len(cells))
	for _, c := range cells {
		out = append(out, calendar.HourCell{Hour: c.Label, Status: c.Status, Malformed: c.Malformed})
	}
	return out
}

func toSpan(span aggregator.TimeSpan) calendar.TimeSpan {
	return calendar.TimeSpan{
		Start: span.Start.Label(),
		End:   span.End.Label(),
		Job:   span.Job,
		Hours: span.Hours(),
		Label: span.Label(),
	}
}

func toSpans(spans []aggregator.TimeSpan) []calendar.TimeSpan {
	out := make([]calendar.TimeSpan, 0, len(spans))
	for _, span := range spans {
		out = append(out, toSpan(span))
	}
	return out
}

func toBlocks(blocks []aggregator.Block) []calendar.Block {
	out := make([]calendar.Block, 0, len(blocks))
	for _, b := range blocks {
		block := calendar.Block{
			Periods:     b.Periods,
			Colspan:     b.Colspan,
			Status:      b.Status,
			Booking:     b.Booking,
			Conflict:    b.Conflict,
			HasSchedule: b.HasSchedule,
		}
		if b.Span != nil {
			span := toSpan(*b.Span)
			block.Span = &span
		}
		out = append(out, block)
	}
	return out
}
