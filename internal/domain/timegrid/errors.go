package timegrid

import "errors"

var (
	ErrUnknownPeriod  = errors.New("unknown period")
	ErrUnknownDay     = errors.New("unknown day abbreviation")
	ErrUnknownHour    = errors.New("unknown hour label")
	ErrInvalidSlotKey = errors.New("invalid slot key")
	ErrInvalidDate    = errors.New("invalid date format, use YYYY-MM-DD")
)
