package session

import "fmt"

// FormatTime renders seconds as MM:SS. Minutes are not wrapped at 60.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ProgressPercent returns the elapsed share of total, in [0,100].
func ProgressPercent(total, remaining int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(total-remaining) / float64(total) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
