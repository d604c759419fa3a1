package utils

import (
	"time"
)

const reportTimestampLayout = "2006-01-02 15:04:05"

// PrettyDate formats a timestamp the way reports and notifications show it.
func PrettyDate(t time.Time) string {
	return t.Format(reportTimestampLayout)
}

// FileTimestamp formats a timestamp for use inside a file name.
func FileTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// DateOrRecent returns the YYYY-MM-DD date of t, or "Recent" when t is unset.
func DateOrRecent(t time.Time) string {
	if t.IsZero() {
		return "Recent"
	}
	return t.Format("2006-01-02")
}
