package styleguide

import (
	"strings"
	"unicode"

	"foxie/internal/utils"
)

var alternativeMarkers = []string{"alternative", "alternate version"}

// Compact drops alternative-implementation comment blocks and collapses runs
// of blank lines. A block starts at a comment line whose text begins with a
// marker and runs through the following comment lines; the first line that is
// not a comment ends it and is kept.
func Compact(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	skipping := false
	for _, line := range lines {
		body, isComment := commentText(line)
		if skipping {
			if isComment {
				continue
			}
			skipping = false
		}
		if isComment && isMarker(body) {
			skipping = true
			continue
		}
		out = append(out, line)
	}
	return utils.CollapseBlankLines(strings.Join(out, "\n"))
}

func commentText(line string) (string, bool) {
	t := strings.TrimSpace(line)
	if rest, ok := strings.CutPrefix(t, "//"); ok {
		return strings.TrimSpace(rest), true
	}
	if rest, ok := strings.CutPrefix(t, "#"); ok {
		return strings.TrimSpace(rest), true
	}
	return "", false
}

func isMarker(body string) bool {
	lower := strings.ToLower(body)
	for _, m := range alternativeMarkers {
		rest, ok := strings.CutPrefix(lower, m)
		if !ok {
			continue
		}
		// "Alternatives are..." is prose, not a marker.
		if rest == "" || !unicode.IsLetter(rune(rest[0])) {
			return true
		}
	}
	return false
}
