// Package period derives the billing period key and its boundaries.
//
// Billing periods are calendar months pinned to UTC. Counters are never
// reset explicitly: a new period key simply stops matching old ledger rows.
package period

import (
	"fmt"
	"regexp"
	"time"
)

// keyPattern is the persisted period key format, e.g. "2025-01".
var keyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Key returns the period key for the calendar month containing now.
func Key(now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("%04d-%02d", now.Year(), int(now.Month()))
}

// ValidKey reports whether s is a well-formed period key.
func ValidKey(s string) bool {
	return keyPattern.MatchString(s)
}

// Bounds returns the first and last instant of the calendar month containing now.
func Bounds(now time.Time) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// NextStart returns the first instant of the month following now. It is the
// quota reset date reported to users.
func NextStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}
