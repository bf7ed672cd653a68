package util

import (
	"errors"
	"strconv"
	"time"
)

// ErrInvalidTimestamp indicates the input is not a numeric timestamp.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// secondsThreshold separates Unix seconds from milliseconds: values
// below 1e11 (≈ year 5138 in seconds) are treated as seconds.
const secondsThreshold = 1e11

// ParseTimestamp converts a numeric Unix timestamp string to a UTC time.
// Both second and millisecond precision inputs are accepted.
func ParseTimestamp(ts string) (time.Time, error) {
	n, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		// Fractional input still counts as a timestamp.
		f, ferr := strconv.ParseFloat(ts, 64)
		if ferr != nil {
			return time.Time{}, ErrInvalidTimestamp
		}
		n = int64(f)
	}

	ms := n
	if n < secondsThreshold && n > -secondsThreshold {
		ms = n * 1000
	}
	return time.UnixMilli(ms).UTC(), nil
}
