package timegrid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Hour is an hour of the day on a 24h clock (8 = 8am, 13 = 1pm).
type Hour int

// Day is a day of the week with Monday as index 0.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const (
	FirstHour Hour = 8
	LastHour  Hour = 20

	// ClosingHour closes any span whose last booked slot is LastHour.
	ClosingHour Hour = 21

	DateLayout = "2006-01-02"
)

// Hours is the ordered slot sequence of a day, 8am..8pm.
var Hours = []Hour{8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}

// Days is the ordered week, Monday first.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayAbbrevs = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Label renders the hour the way slot keys spell it: "8am", "12pm", "8pm".
func (h Hour) Label() string {
	switch {
	case h == 0 || h == 24:
		return "12am"
	case h < 12:
		return strconv.Itoa(int(h)) + "am"
	case h == 12:
		return "12pm"
	default:
		return strconv.Itoa(int(h-12)) + "pm"
	}
}

func (h Hour) String() string { return h.Label() }

// OnGrid reports whether h is one of the day's slots.
func (h Hour) OnGrid() bool {
	return h >= FirstHour && h <= LastHour
}

// Index returns the position of h in Hours, or -1.
func (h Hour) Index() int {
	if !h.OnGrid() {
		return -1
	}
	return int(h - FirstHour)
}

// ParseHour parses a label such as "9am" or "12pm".
func ParseHour(label string) (Hour, error) {
	s := strings.ToLower(strings.TrimSpace(label))
	var suffix string
	switch {
	case strings.HasSuffix(s, "am"):
		suffix = "am"
	case strings.HasSuffix(s, "pm"):
		suffix = "pm"
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownHour, label)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, suffix))
	if err != nil || n < 1 || n > 12 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownHour, label)
	}
	if n == 12 {
		n = 0
	}
	if suffix == "pm" {
		n += 12
	}
	return Hour(n), nil
}

// ParseGridHour parses a label and rejects hours outside the slot grid.
func ParseGridHour(label string) (Hour, error) {
	h, err := ParseHour(label)
	if err != nil {
		return 0, err
	}
	if !h.OnGrid() {
		return 0, fmt.Errorf("%w: %q is outside %s-%s", ErrUnknownHour, label, FirstHour.Label(), LastHour.Label())
	}
	return h, nil
}

// SuccessorHour returns the next slot of the day. It reports false at the
// last slot, where the day ends, and for hours that are not on the grid.
func SuccessorHour(h Hour) (Hour, bool) {
	if !h.OnGrid() || h == LastHour {
		return 0, false
	}
	return h + 1, true
}

// EndOf returns the exclusive end of a run whose last slot is h.
func EndOf(h Hour) Hour {
	if next, ok := SuccessorHour(h); ok {
		return next
	}
	return ClosingHour
}

func (d Day) Abbrev() string {
	if d < Monday || d > Sunday {
		return ""
	}
	return dayAbbrevs[d]
}

func (d Day) String() string { return d.Abbrev() }

// ParseDay parses a three-letter abbreviation, case-insensitively.
func ParseDay(abbrev string) (Day, error) {
	for i, a := range dayAbbrevs {
		if strings.EqualFold(a, strings.TrimSpace(abbrev)) {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDay, abbrev)
}

// DayOf maps a date to its Monday-first weekday.
func DayOf(t time.Time) Day {
	w := int(t.Weekday())
	if w == 0 {
		w = 7
	}
	return Day(w - 1)
}

// SlotKey builds the wire key for one slot, e.g. "Wed_2pm".
func SlotKey(d Day, h Hour) string {
	return d.Abbrev() + "_" + h.Label()
}

// ParseSlotKey splits a wire key back into its day and hour.
func ParseSlotKey(key string) (Day, Hour, error) {
	dayPart, hourPart, ok := strings.Cut(key, "_")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSlotKey, key)
	}
	d, err := ParseDay(dayPart)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSlotKey, key)
	}
	h, err := ParseGridHour(hourPart)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSlotKey, key)
	}
	return d, h, nil
}

// WeekStart returns midnight of the Monday of t's ISO week.
func WeekStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()-int(DayOf(t)), 0, 0, 0, 0, t.Location())
}

// WeekKey returns the weekStarting key ("YYYY-MM-DD") for t's week.
func WeekKey(t time.Time) string {
	return WeekStart(t).Format(DateLayout)
}

// ParseDate parses a "YYYY-MM-DD" date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// NormalizeWeekKey maps any date string to the Monday key of its week.
func NormalizeWeekKey(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return WeekKey(t), nil
}

// DaysInMonth lists every date of the month in order.
func DaysInMonth(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	var out []time.Time
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
