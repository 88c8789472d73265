package cache

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// TTL configuration constants and defaults.
const (
	// DefaultPriceTTLSeconds is the default price cache TTL (5 minutes).
	DefaultPriceTTLSeconds = 300

	// maxTTLSeconds is the largest TTL that still fits in a time.Duration.
	maxTTLSeconds = int64(NeverExpire / time.Second)

	// minutesPerHour is used for duration formatting calculations.
	minutesPerHour = 60

	// hoursPerDay is used for duration formatting calculations.
	hoursPerDay = 24
)

// ErrInvalidTTL is returned for negative or unparseable TTL values.
var ErrInvalidTTL = errors.New("TTL must be a non-negative number of seconds or a duration")

// TTLFromSeconds converts a TTL in seconds to a duration.
// Values too large for a time.Duration saturate to NeverExpire.
func TTLFromSeconds(seconds int64) (time.Duration, error) {
	if seconds < 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	if seconds >= maxTTLSeconds {
		return NeverExpire, nil
	}
	return time.Duration(seconds) * time.Second, nil
}

// ParseTTL parses a TTL string in various formats:
// - Integer seconds: "300".
// - Duration string: "5m", "1h30m".
//
// Durations must be whole seconds; "1500ms" is rejected rather than truncated.
func ParseTTL(s string) (time.Duration, error) {
	// Try parsing as integer seconds first
	if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
		return TTLFromSeconds(seconds)
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidTTL, err)
	}
	if duration < 0 {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidTTL, s)
	}
	if duration%time.Second != 0 {
		return 0, fmt.Errorf("%w: %s is not a whole number of seconds", ErrInvalidTTL, s)
	}
	return duration, nil
}

// FormatDuration formats a duration in a human-readable way.
// Examples: "1h", "30m", "5m30s".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	if d < hoursPerDay*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % minutesPerHour
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, hours)
}
