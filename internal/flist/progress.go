package flist

import (
	"fmt"
	"time"
)

// PercentComplete returns the completed fraction and a display string.
// It never reports 100%: for large inputs the displayed value would
// reach 100% well before the run finishes, so it caps at 99.9%.
func PercentComplete(completed, total int64) (float64, string) {
	if total < 1 {
		return 0.0, "(?)"
	}
	if completed < 1 {
		return 0.0, "0%"
	}
	pct := float64(completed) / float64(total)
	if pct > 0.999 {
		return pct, "99.9%"
	}
	return pct, fmt.Sprintf("%.1f%%", pct*100)
}

// EstimatedFinish projects a finish time-of-day from the fraction
// completed so far. Returns "(?)" when no progress has been made.
func EstimatedFinish(pct float64, start, now time.Time) string {
	if pct == 0.0 {
		return "(?)"
	}
	elapsed := now.Sub(start)
	estDone := start.Add(time.Duration(float64(elapsed) / pct))
	return estDone.Format("15:04:05")
}
