package slot

import "errors"

var (
	ErrMissingJobNumber   = errors.New("booked slot has no job number")
	ErrUnrecognizedStatus = errors.New("unrecognized slot status")
)
