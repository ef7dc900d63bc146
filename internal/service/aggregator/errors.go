package aggregator

import "errors"

var ErrUnknownGranularity = errors.New("unknown stats granularity, use day, week or month")
