package util

import "fmt"

// FormatSeconds renders a duration in seconds as "1h 2m 3s", dropping the
// leading units when they are zero. Nil (no data) renders as "N/A".
func FormatSeconds(seconds *float64) string {
	if seconds == nil {
		return "N/A"
	}
	s := int64(*seconds)
	hours := s / 3600
	minutes := (s % 3600) / 60
	secs := s % 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// FormatPct renders a percentage with two decimals, or "N/A" for nil.
func FormatPct(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *v)
}
