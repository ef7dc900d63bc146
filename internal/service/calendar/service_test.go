package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cleanops/calendar-backend/internal/domain/calendar"
	"github.com/cleanops/calendar-backend/internal/domain/cleaner"
	"github.com/cleanops/calendar-backend/internal/domain/slot"
	"github.com/cleanops/calendar-backend/internal/fixtures"
	"github.com/cleanops/calendar-backend/internal/pkg/validator"
	"github.com/cleanops/calendar-backend/internal/repository/memory"
	"github.com/cleanops/calendar-backend/internal/service/aggregator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const monday = "2024-01-08"

func newService(t *testing.T) *CalendarServiceImpl {
	t.Helper()
	repo := memory.NewSnapshotRepository()
	require.NoError(t, repo.Replace(context.Background(), cleaner.Snapshot{
		Cleaners:  fixtures.Cleaners(fixtures.ReferenceWeek),
		FetchedAt: fixtures.ReferenceWeek,
	}))
	svc := NewCalendarService(repo, cleaner.NewRegionDirectory(cleaner.DefaultRegions()...), aggregator.New(nil)).(*CalendarServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC) }
	return svc
}

func rowIDs[T any](rows []T, id func(T) string) []string {
	out := []string{}
	for _, r := range rows {
		out = append(out, id(r))
	}
	return out
}

func TestHourly(t *testing.T) {
	svc := newService(t)
	view, err := svc.Hourly(context.Background(), calendar.ViewQuery{Date: monday})
	require.NoError(t, err)

	assert.Equal(t, "Mon", view.Day)
	assert.Len(t, view.Hours, 13)
	assert.Equal(t, "8am", view.Hours[0])
	require.Len(t, view.Rows, 12)

	ashley := view.Rows[0]
	assert.Equal(t, "C01", ashley.Cleaner.ID)
	assert.Equal(t, cleaner.TierGold, ashley.Cleaner.Tier)
	assert.Equal(t, "Charlotte", ashley.Cleaner.Region.Key)
	require.Len(t, ashley.Cells, 13)
	assert.Equal(t, slot.Booked, ashley.Cells[2].Status.Kind)
	assert.Equal(t, "40000", ashley.Cells[2].Status.Job)
	assert.Equal(t, []calendar.TimeSpan{{Start: "10am", End: "1pm", Job: "40000", Hours: 3, Label: "10am-1pm"}}, ashley.Spans)
	assert.Equal(t, calendar.Counts{Available: 6, Booked: 3}, ashley.Counts)

	derek := view.Rows[2]
	assert.False(t, derek.HasSchedule)
	assert.Empty(t, derek.Spans)

	require.NotNil(t, view.Unassigned)
	assert.Equal(t, []calendar.TimeSpan{{Start: "8am", End: "10am", Job: "49001", Hours: 2, Label: "8am-10am"}}, view.Unassigned.Spans)
}

func TestDailyStats(t *testing.T) {
	svc := newService(t)
	view, err := svc.Daily(context.Background(), calendar.ViewQuery{Date: monday})
	require.NoError(t, err)

	assert.Equal(t, calendar.Summary{
		Granularity:       "day",
		From:              monday,
		To:                monday,
		TotalCleaners:     12,
		AvailableCleaners: 9,
		AvailableSlots:    69,
		BookedSlots:       41,
		Utilization:       37,
	}, view.Stats)
	assert.Len(t, view.Periods, 3)
	assert.Equal(t, "8am-12pm", view.Periods[0].Range)
}

func TestDailyBlocks(t *testing.T) {
	svc := newService(t)
	view, err := svc.Daily(context.Background(), calendar.ViewQuery{Date: monday})
	require.NoError(t, err)

	ashley := view.Rows[0].Blocks
	require.Len(t, ashley, 2)
	assert.Equal(t, 2, ashley[0].Colspan)
	require.NotNil(t, ashley[0].Span)
	assert.Equal(t, "10am-1pm", ashley[0].Span.Label)
	assert.Equal(t, slot.Unavailable, ashley[1].Status)

	maria := view.Rows[1].Blocks
	require.Len(t, maria, 3)
	require.NotNil(t, maria[2].Span)
	assert.Equal(t, "5pm-9pm", maria[2].Span.Label)

	derek := view.Rows[2]
	assert.False(t, derek.HasSchedule)
	for _, b := range derek.Blocks {
		assert.False(t, b.HasSchedule)
	}
}

func TestDailyFiltered(t *testing.T) {
	svc := newService(t)
	view, err := svc.Daily(context.Background(), calendar.ViewQuery{
		Date:     monday,
		Criteria: cleaner.Criteria{Regions: []string{"Charlotte"}, Search: "ash"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"C01"}, rowIDs(view.Rows, func(r calendar.DailyRow) string { return r.Cleaner.ID }))
	assert.Nil(t, view.Unassigned, "the unassigned record has no region")
	assert.Equal(t, 1, view.Stats.TotalCleaners)
	assert.Equal(t, 3, view.Stats.BookedSlots)
}

func TestWeekly(t *testing.T) {
	svc := newService(t)
	view, err := svc.Weekly(context.Background(), calendar.ViewQuery{Date: "2024-01-11"})
	require.NoError(t, err)

	assert.Equal(t, monday, view.WeekStarting)
	require.Len(t, view.Days, 7)
	assert.Equal(t, "Sun", view.Days[6].Day)
	assert.Equal(t, "2024-01-14", view.Days[6].Date)

	require.Len(t, view.Rows, 12)
	ashley := view.Rows[0]
	assert.Equal(t, "C01", ashley.Cleaner.ID)
	assert.Equal(t, calendar.Counts{Available: 33, Booked: 23}, ashley.Counts)
	assert.Equal(t, 41, ashley.Utilization)
	require.Len(t, ashley.Days, 7)

	kevin := view.Rows[6]
	assert.Equal(t, "C07", kevin.Cleaner.ID)
	tuesday := kevin.Days[1]
	require.Len(t, tuesday.Blocks, 3)
	assert.True(t, tuesday.Blocks[0].Conflict)
	assert.Equal(t, slot.Available, tuesday.Blocks[0].Status)

	week := calendar.Counts{}
	for _, d := range ashley.Days {
		week.Available += d.Counts.Available
		week.Booked += d.Counts.Booked
	}
	assert.Equal(t, ashley.Counts, week)
}

func TestWeeklyStatsMatchStatsEndpoint(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	view, err := svc.Weekly(ctx, calendar.ViewQuery{Date: monday})
	require.NoError(t, err)
	stats, err := svc.Stats(ctx, calendar.StatsQuery{Scope: "week", Date: monday})
	require.NoError(t, err)
	assert.Equal(t, view.Stats, *stats)
}

func TestMonthly(t *testing.T) {
	svc := newService(t)
	view, err := svc.Monthly(context.Background(), calendar.MonthQuery{Month: "2024-01"})
	require.NoError(t, err)

	assert.Equal(t, "2024-01", view.Month)
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, view.Days)
	require.Len(t, view.Weeks, 5)
	for _, w := range view.Weeks {
		assert.Len(t, w, 7)
	}

	first := view.Weeks[0][0]
	assert.Equal(t, "2024-01-01", first.Date)
	assert.True(t, first.InMonth)
	assert.Zero(t, first.BookedSlots, "no schedule submitted for that week")

	jan8 := view.Weeks[1][0]
	assert.Equal(t, monday, jan8.Date)
	assert.Equal(t, 69, jan8.AvailableSlots)
	assert.Equal(t, 41, jan8.BookedSlots)
	assert.Equal(t, 37, jan8.Utilization)

	feb1 := view.Weeks[4][3]
	assert.Equal(t, "2024-02-01", feb1.Date)
	assert.False(t, feb1.InMonth)

	var booked, available int
	for _, w := range view.Weeks {
		for _, d := range w {
			booked += d.BookedSlots
			available += d.AvailableSlots
		}
	}
	assert.Equal(t, view.Stats.BookedSlots, booked)
	assert.Equal(t, view.Stats.AvailableSlots, available)
}

func TestMonthlyDefaultsToCurrentMonth(t *testing.T) {
	svc := newService(t)
	view, err := svc.Monthly(context.Background(), calendar.MonthQuery{})
	require.NoError(t, err)
	assert.Equal(t, "2024-01", view.Month)
}

func TestStatsScopes(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	day, err := svc.Stats(ctx, calendar.StatsQuery{Scope: "day", Date: monday})
	require.NoError(t, err)
	assert.Equal(t, 41, day.BookedSlots)

	defaulted, err := svc.Stats(ctx, calendar.StatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, "week", defaulted.Granularity)
	assert.Equal(t, monday, defaulted.From)
	assert.Equal(t, "2024-01-14", defaulted.To)

	_, err = svc.Stats(ctx, calendar.StatsQuery{Scope: "year"})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestDirectory(t *testing.T) {
	svc := newService(t)
	view, err := svc.Directory(context.Background(), calendar.ViewQuery{})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-10", view.Date)
	assert.Equal(t, monday, view.WeekStarting)
	require.Len(t, view.Cards, 12, "no card for the unassigned record")

	ashley := view.Cards[0]
	assert.Equal(t, "ashley.brooks@cleanops.test", ashley.Email)
	assert.Equal(t, calendar.Counts{Available: 33, Booked: 23}, ashley.Week)
	assert.Equal(t, 41, ashley.Utilization)
	assert.Len(t, ashley.Today, 2, "afternoon and evening hold one job")

	assert.False(t, view.Cards[2].HasSchedule)
	assert.Equal(t, cleaner.TierBronze, view.Cards[2].Tier)
}

func TestInvalidQueries(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Hourly(ctx, calendar.ViewQuery{Date: "2024-13-01"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "date")

	_, err = svc.Monthly(ctx, calendar.MonthQuery{Month: "January"})
	assert.True(t, errors.As(err, &verrs))
}

func TestNoSnapshot(t *testing.T) {
	svc := NewCalendarService(memory.NewSnapshotRepository(), cleaner.NewRegionDirectory(), aggregator.New(nil))
	_, err := svc.Weekly(context.Background(), calendar.ViewQuery{Date: monday})
	assert.ErrorIs(t, err, cleaner.ErrNoSnapshot)

	st := svc.Status(context.Background())
	assert.False(t, st.HasSnapshot)
}

func TestRegions(t *testing.T) {
	svc := newService(t)
	regions, err := svc.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Charlotte", "Triad", "Raleigh"}, rowIDs(regions, func(r cleaner.Region) string { return r.Key }))
}
