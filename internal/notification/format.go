package notification

import "strings"

// composeBody joins a title with an optional details block, matching the
// layout used across the text-oriented channels.
func composeBody(title, details string) string {
	if details == "" {
		return title
	}

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\nDetails:\n")
	sb.WriteString(details)
	return sb.String()
}

// truncate shortens a message to at most max runes, appending an ellipsis
// marker when content was cut. Used for sinks with hard message length
// limits (LINE Notify caps messages at 1000 characters).
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	const marker = "..."
	if max <= len(marker) {
		return string(runes[:max])
	}
	return string(runes[:max-len(marker)]) + marker
}
