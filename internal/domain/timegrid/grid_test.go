package timegrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHourLabel(t *testing.T) {
	cases := []struct {
		hour Hour
		want string
	}{
		{8, "8am"},
		{11, "11am"},
		{12, "12pm"},
		{13, "1pm"},
		{20, "8pm"},
		{21, "9pm"},
		{0, "12am"},
	}
	for _, c := range cases {
		if got := c.hour.Label(); got != c.want {
			t.Errorf("Hour(%d).Label() = %q, want %q", c.hour, got, c.want)
		}
	}
}

func TestParseHour(t *testing.T) {
	for _, h := range Hours {
		got, err := ParseHour(h.Label())
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}

	invalid := []string{"", "9", "13pm", "0am", "noon", "pm"}
	for _, s := range invalid {
		_, err := ParseHour(s)
		assert.ErrorIs(t, err, ErrUnknownHour, s)
	}

	_, err := ParseGridHour("7am")
	assert.ErrorIs(t, err, ErrUnknownHour)
}

func TestSuccessorHour(t *testing.T) {
	next, ok := SuccessorHour(11)
	assert.True(t, ok)
	assert.Equal(t, "12pm", next.Label())

	next, ok = SuccessorHour(8)
	assert.True(t, ok)
	assert.Equal(t, Hour(9), next)

	_, ok = SuccessorHour(LastHour)
	assert.False(t, ok, "8pm has no successor")

	_, ok = SuccessorHour(6)
	assert.False(t, ok)

	assert.Equal(t, ClosingHour, EndOf(LastHour))
	assert.Equal(t, "9pm", EndOf(LastHour).Label())
	assert.Equal(t, Hour(12), EndOf(11))
}

func TestGridShape(t *testing.T) {
	assert.Len(t, Hours, 13)
	assert.Len(t, Days, 7)
	for i, h := range Hours {
		assert.Equal(t, i, h.Index())
	}
	assert.Equal(t, -1, Hour(21).Index())
}

func TestPeriodsPartitionDay(t *testing.T) {
	seen := map[Hour]Period{}
	var ordered []Hour
	for _, p := range Periods {
		hours, err := PeriodHours(p)
		require.NoError(t, err)
		for _, h := range hours {
			prev, dup := seen[h]
			assert.False(t, dup, "hour %s in both %s and %s", h, prev, p)
			seen[h] = p
			ordered = append(ordered, h)
		}
	}
	assert.Equal(t, Hours, ordered, "periods must cover the day in order with no gaps")

	m, _ := PeriodHours(Morning)
	a, _ := PeriodHours(Afternoon)
	e, _ := PeriodHours(Evening)
	assert.Equal(t, []int{4, 5, 4}, []int{len(m), len(a), len(e)})
}

func TestPeriodHoursUnknown(t *testing.T) {
	_, err := PeriodHours("Night")
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestPeriodHoursReturnsCopy(t *testing.T) {
	hours, err := PeriodHours(Morning)
	require.NoError(t, err)
	hours[0] = 99

	again, _ := PeriodHours(Morning)
	assert.Equal(t, Hour(8), again[0])
}

func TestPeriodOfAndRange(t *testing.T) {
	p, err := PeriodOf(12)
	require.NoError(t, err)
	assert.Equal(t, Afternoon, p)

	_, err = PeriodOf(21)
	assert.ErrorIs(t, err, ErrUnknownHour)

	assert.Equal(t, "8am-12pm", Morning.Range())
	assert.Equal(t, "5pm-9pm", Evening.Range())
}

func TestDayOfRemapsSunday(t *testing.T) {
	// 2024-01-01 is a Monday.
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, Monday, DayOf(monday))
	assert.Equal(t, Sunday, DayOf(monday.AddDate(0, 0, 6)))
	assert.Equal(t, Saturday, DayOf(monday.AddDate(0, 0, 5)))
}

func TestSlotKeyWireFormat(t *testing.T) {
	assert.Equal(t, "Wed_2pm", SlotKey(Wednesday, 14))
	assert.Equal(t, "Mon_9am", SlotKey(Monday, 9))
	assert.Equal(t, "Sun_12pm", SlotKey(Sunday, 12))

	d, h, err := ParseSlotKey("Fri_11am")
	require.NoError(t, err)
	assert.Equal(t, Friday, d)
	assert.Equal(t, Hour(11), h)

	for _, bad := range []string{"Fri11am", "Xyz_9am", "Mon_7am", "weekStarting"} {
		_, _, err := ParseSlotKey(bad)
		assert.ErrorIs(t, err, ErrInvalidSlotKey, bad)
	}
}

func TestWeekKeyStability(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		want  string
	}{
		{"january week", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "2024-01-01"},
		{"week crossing month", time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC), "2024-02-26"},
		{"week crossing year", time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), "2024-12-30"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for i := 0; i < 7; i++ {
				day := c.start.AddDate(0, 0, i).Add(time.Duration(i) * 3 * time.Hour)
				assert.Equal(t, c.want, WeekKey(day), "offset %d", i)
			}
		})
	}
}

func TestNormalizeWeekKey(t *testing.T) {
	got, err := NormalizeWeekKey("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-26", got)

	_, err = NormalizeWeekKey("03/01/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDaysInMonth(t *testing.T) {
	assert.Len(t, DaysInMonth(2024, time.February), 29)
	assert.Len(t, DaysInMonth(2023, time.February), 28)
	days := DaysInMonth(2024, time.April)
	assert.Len(t, days, 30)
	assert.Equal(t, 1, days[0].Day())
}
