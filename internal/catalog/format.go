package catalog

import (
	"strconv"
	"time"
)

const invalidDate = "Invalid Date"

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano, "2006-01", "2006"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatYear returns the year of a date string, or "Invalid Date"
func FormatYear(date string) string {
	t, ok := parseDate(date)
	if !ok {
		return invalidDate
	}
	return strconv.Itoa(t.Year())
}

// FormatDate renders a date as "May 25, 1977", or "Invalid Date"
func FormatDate(date string) string {
	t, ok := parseDate(date)
	if !ok {
		return invalidDate
	}
	return t.Format("January 2, 2006")
}

// TruncateText shortens text to maxLen runes, appending "..." when cut
func TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen < 0 {
		maxLen = 0
	}
	return string(runes[:maxLen]) + "..."
}
