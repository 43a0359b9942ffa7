package session

import "strconv"

// parseTimestampMillis parses the exchange's string-encoded unix-millis
// timestamps, defaulting to 0 on malformed input rather than failing the
// whole event — a timestamp is advisory staleness metadata, not a value the
// writers depend on for correctness.
func parseTimestampMillis(s string) int64 {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return ts
}
