package timegrid

import "fmt"

// Period is a named run of contiguous hours.
type Period string

const (
	Morning   Period = "Morning"
	Afternoon Period = "Afternoon"
	Evening   Period = "Evening"
)

// Periods is the day order of the named periods.
var Periods = []Period{Morning, Afternoon, Evening}

var periodHours = map[Period][]Hour{
	Morning:   {8, 9, 10, 11},
	Afternoon: {12, 13, 14, 15, 16},
	Evening:   {17, 18, 19, 20},
}

// PeriodHours returns the hours of p in order.
func PeriodHours(p Period) ([]Hour, error) {
	hours, ok := periodHours[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
	}
	out := make([]Hour, len(hours))
	copy(out, hours)
	return out, nil
}

// PeriodOf returns the period containing h.
func PeriodOf(h Hour) (Period, error) {
	for _, p := range Periods {
		for _, ph := range periodHours[p] {
			if ph == h {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownHour, h.Label())
}

// Range renders the period's clock range, e.g. "8am-12pm".
func (p Period) Range() string {
	hours, ok := periodHours[p]
	if !ok {
		return ""
	}
	return hours[0].Label() + "-" + EndOf(hours[len(hours)-1]).Label()
}
