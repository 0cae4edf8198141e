package composer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const previewLen = 80

var ErrNoHistory = errors.New("no such history entry")

// Preview is the first line of a prompt, cut to 80 characters. The ellipsis
// is added whenever the whole prompt is longer than 80 characters, even if
// its first line is short.
func Preview(prompt string) string {
	first, _, _ := strings.Cut(prompt, "\n")
	runes := []rune(first)
	if len(runes) > previewLen {
		first = string(runes[:previewLen])
	}
	if len([]rune(prompt)) > previewLen {
		first += "..."
	}
	return first
}

// FormatRelative describes how long ago t was, relative to now.
func FormatRelative(t, now time.Time) string {
	mins := int(now.Sub(t) / time.Minute)
	if mins < 1 {
		return "Just now"
	}
	if mins < 60 {
		return plural(mins, "minute")
	}
	hours := mins / 60
	if hours < 24 {
		return plural(hours, "hour")
	}
	days := hours / 24
	if days < 7 {
		return plural(days, "day")
	}
	return t.Local().Format("2006-01-02")
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
