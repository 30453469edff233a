package util

import (
	"fmt"
	"time"
)

// RelativeTime renders the distance between a unix timestamp and now in short form
// ("45s", "12m", "3h", "2d", "5w", "4mo", "1y"). Timestamps in the future render as "0s".
func RelativeTime(ts int64, now time.Time) string {
	d := now.Sub(time.Unix(ts, 0))
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dw", int(d.Hours()/(24*7)))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo", int(d.Hours()/(24*30)))
	}
	return fmt.Sprintf("%dy", int(d.Hours()/(24*365)))
}

// FormatDate renders a unix timestamp as a calendar date ("Jan 2, 2006"), empty for zero.
func FormatDate(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format("Jan 2, 2006")
}

// ISOTime renders a unix timestamp for <time datetime=...> attributes.
func ISOTime(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
