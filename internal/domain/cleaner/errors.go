package cleaner

import "errors"

var (
	ErrCleanerNotFound     = errors.New("cleaner not found")
	ErrInvalidWeekStarting = errors.New("invalid weekStarting, use YYYY-MM-DD")
	ErrWeekNotMonday       = errors.New("weekStarting is not a Monday")
	ErrDuplicateWeek       = errors.New("duplicate schedule for week")
)

var ErrNoSnapshot = errors.New("calendar data has not been loaded yet")
