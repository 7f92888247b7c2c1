// Package util holds small formatting helpers shared by modules.
package util

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders a duration as the largest two non-zero units,
// e.g. "2d 4h", "4h 11m", "53s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, " ")
}

// FormatDateTpl formats a timestamp in seconds since the Unix epoch using a
// template with placeholders.
//
// Supported placeholders: YYYY, YY, MM, DD, hh, mm, ss.
// Returns an empty string if ts == 0.
func FormatDateTpl(ts int64, tpl string) string {
	if ts == 0 {
		return ""
	}

	// Longest placeholder first, so YY never clobbers YYYY.
	goTpl := tpl
	replacements := []struct{ from, to string }{
		{"YYYY", "2006"},
		{"YY", "06"},
		{"MM", "01"},
		{"DD", "02"},
		{"hh", "15"},
		{"mm", "04"},
		{"ss", "05"},
	}
	for _, r := range replacements {
		goTpl = strings.ReplaceAll(goTpl, r.from, r.to)
	}

	return time.Unix(ts, 0).UTC().Format(goTpl)
}
