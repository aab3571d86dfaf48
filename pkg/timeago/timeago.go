package timeago

import (
	"fmt"
	"time"
)

const (
	minute = 60
	hour   = 3600
	day    = 86400
	week   = 604800
	month  = 2592000
)

// Format converts an instant to a coarse relative label ("5m ago", "3d ago").
// Always evaluated against time.Now, never cached.
func Format(t time.Time) string {
	seconds := int64(time.Since(t).Seconds())
	if seconds < 0 {
		seconds = 0
	}

	switch {
	case seconds < minute:
		return fmt.Sprintf("%ds ago", seconds)
	case seconds < hour:
		return fmt.Sprintf("%dm ago", seconds/minute)
	case seconds < day:
		return fmt.Sprintf("%dh ago", seconds/hour)
	case seconds < week:
		return fmt.Sprintf("%dd ago", seconds/day)
	case seconds < month:
		return fmt.Sprintf("%dw ago", seconds/week)
	default:
		return fmt.Sprintf("%dmo ago", seconds/month)
	}
}

// FormatPtr is Format for optional instants (readAt before a message is
// read). A nil input yields a nil label.
func FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	label := Format(*t)
	return &label
}
