// Package textutil fits text into fixed terminal columns.
package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Width is the number of terminal columns s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate cuts s to at most max columns, ending in Ellipsis when cut.
// Wide runes are never split.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if Width(s) <= max {
		return s
	}
	room := max - Width(Ellipsis)
	if room <= 0 {
		return Ellipsis
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if used+w > room {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String() + Ellipsis
}

// Field renders "label value" with value truncated so the line fits max
// columns. label is measured unstyled.
func Field(label, styledLabel, value string, max int) string {
	return styledLabel + " " + Truncate(value, max-Width(label)-1)
}
