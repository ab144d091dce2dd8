package presenter

import (
	"fmt"
	"time"
)

// FormatClock renders t as a 12-hour clock face, e.g. "7:05:09 PM".
func FormatClock(t time.Time) string {
	return t.Format("3:04:05 PM")
}

// FormatRemaining renders d as HH:MM:SS, rounding up to the next second
// so that a countdown reaches 00:00:00 only when nothing is left.
// Negative durations render as zero.
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "00:00:00"
	}

	total := int64((d + time.Second - 1) / time.Second)

	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}
