package booking

import "errors"

var (
	ErrSlotNotAvailable = errors.New("requested slot is not available")
	ErrBookingRejected  = errors.New("booking was rejected by the booking endpoint")
)
