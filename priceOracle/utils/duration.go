package utils

import "time"

// Milliseconds converts a configured millisecond cadence to a duration.
func Milliseconds(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
