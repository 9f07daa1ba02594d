package symbols

import (
	"strings"
	"unicode"
)

// Wrap keeps the first limit runes of s and splits them into lines of at
// most width runes. Existing line breaks are kept: each input line is chunked
// on its own and the limit counts runes across all lines. Other control
// characters become spaces and blank lines are dropped. A non-positive limit
// disables truncation; a non-positive width leaves input lines whole.
//
// Wrap never fails and is stable: joining its lines with "\n" and wrapping
// again gives the same lines.
func Wrap(s string, limit, width int) []string {
	var lines []string
	budget := limit
	for _, line := range strings.Split(s, "\n") {
		if limit > 0 && budget <= 0 {
			break
		}
		runes := []rune(Clean(strings.TrimSuffix(line, "\r")))
		if limit > 0 && len(runes) > budget {
			runes = runes[:budget]
		}
		budget -= len(runes)
		if len(runes) == 0 {
			continue
		}
		if width <= 0 {
			lines = append(lines, string(runes))
			continue
		}
		for i := 0; i < len(runes); i += width {
			lines = append(lines, string(runes[i:min(i+width, len(runes))]))
		}
	}
	return lines
}

// Truncate shortens s to at most limit runes, marking the cut with "..".
// Control characters become spaces.
func Truncate(s string, limit int) string {
	s = Clean(s)
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	if limit <= 2 {
		return string(runes[:limit])
	}
	return string(runes[:limit-2]) + ".."
}

// Clean replaces control characters, including newlines and tabs, with
// spaces so untrusted text always renders on the line it was given.
func Clean(s string) string {
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

func label(s string, limit int) []string {
	s = Truncate(s, limit)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return []string{s}
}
