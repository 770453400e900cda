package uiutil

import (
	"strconv"
	"strings"
	"time"
)

// FriendlyDateTimeLayout matches the "2 March 2024 at 9:05am" style of the portal pages.
const FriendlyDateTimeLayout = "2 January 2006 at 3:04pm"

// RelativeTime describes how long before now t occurred. Times in the future
// read "just now"; anything older than a week falls back to a full date.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day") + " ago"
	default:
		return FormatDateTime(t)
	}
}

// FormatDateTime returns a consistent, user-friendly UTC timestamp.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(FriendlyDateTimeLayout)
}

// JobInitiatedBy renders the "Job initiated by ..." line of the job status banner.
func JobInitiatedBy(user string, created time.Time) string {
	user = strings.TrimSpace(user)
	if user == "" {
		user = "an unknown user"
	}
	if created.IsZero() {
		return "Job initiated by " + user
	}
	return "Job initiated by " + user + " on " + FormatDateTime(created)
}

// TruncateWithEllipsis shortens text to the provided rune limit and appends an ellipsis when truncated.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
