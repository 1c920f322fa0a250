package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateWithWidth truncates text to fit within maxWidth, accounting for
// wide characters. Adds "..." if the text is truncated.
func TruncateWithWidth(text string, maxWidth int) string {
	if maxWidth <= 3 || runewidth.StringWidth(text) <= maxWidth {
		return text
	}

	width := 0
	for i, r := range text {
		width += runewidth.RuneWidth(r)
		if width > maxWidth-3 {
			return text[:i] + "..."
		}
	}
	return text
}

// PadRight pads text with spaces up to width display columns
func PadRight(text string, width int) string {
	gap := width - runewidth.StringWidth(text)
	if gap <= 0 {
		return text
	}
	return text + strings.Repeat(" ", gap)
}

// Window returns the [start, end) range of a list of n rows that keeps
// cursor visible in a viewport of height rows, roughly centered
func Window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
