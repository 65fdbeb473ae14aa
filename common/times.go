package common

import (
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

var (
	millisRegexp = regexp.MustCompile(`^\d+$`)
	clockRegexp  = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
)

// FormatTimestamp formats a timestamp as the number of milliseconds since the epoch.
func FormatTimestamp(timestamp time.Time) string {
	return strconv.FormatInt(timestamp.UnixMilli(), 10)
}

// ParseTimestamp parses a timestamp that is either a number of milliseconds since the epoch or an RFC 3339
// timestamp. The second return value is false if the string is empty.
func ParseTimestamp(timestamp string) (time.Time, bool, error) {
	if timestamp == "" {
		return time.Time{}, false, nil
	}

	// Epoch milliseconds.
	if millisRegexp.MatchString(timestamp) {
		millis, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			return time.Time{}, false, errors.Wrapf(err, "invalid timestamp `%s`", timestamp)
		}
		return time.UnixMilli(millis), true, nil
	}

	// RFC 3339, with or without fractional seconds.
	parsed, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return time.Time{}, false, errors.Wrapf(err, "invalid timestamp `%s`", timestamp)
	}
	return parsed, true, nil
}

// ParseClock converts an HH:MM string into the integer HH*100+MM.
func ParseClock(clock string) (int, error) {
	matches := clockRegexp.FindStringSubmatch(clock)
	if matches == nil {
		return 0, errors.Errorf("invalid time of day `%s`: expected HH:MM", clock)
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	if hours > 23 || minutes > 59 {
		return 0, errors.Errorf("invalid time of day `%s`: out of range", clock)
	}

	return hours*100 + minutes, nil
}

// ClockValue returns the time of day of a timestamp as the integer HH*100+MM, in the timestamp's own location.
func ClockValue(timestamp time.Time) int {
	return timestamp.Hour()*100 + timestamp.Minute()
}
