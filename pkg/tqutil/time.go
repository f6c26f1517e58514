package tqutil

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration formats a time.Duration into a human-readable string with
// appropriate units (ns, µs, ms, s, m).
func FormatDuration(d time.Duration) (r string) {
	defer func() {
		if r == "" {
			r = "0ns"
		}
		r = strings.TrimSpace(r)
	}()
	switch {
	case d < time.Microsecond:
		r = fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		r = fmt.Sprintf("%.2fµs", float64(d.Nanoseconds())/float64(time.Microsecond))
	case d < time.Second:
		r = fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/float64(time.Millisecond))
	case d < time.Minute:
		r = fmt.Sprintf("%.2fs", float64(d.Nanoseconds())/float64(time.Second))
	default:
		r = fmt.Sprintf("%.2fm", float64(d.Nanoseconds())/float64(time.Minute))
	}
	return
}
