package utils

import (
	"regexp"
	"strings"
)

var (
	// reFence matches a fenced block that wraps the whole text: ```lang ... ```
	reFence = regexp.MustCompile("(?s)^```[A-Za-z0-9_+-]*[ \t]*\r?\n(.*?)\r?\n?```$")
	// reBlankRuns matches runs of 3+ blank lines that may carry trailing spaces
	reBlankRuns = regexp.MustCompile(`\n(?:[ \t]*\n){3,}`)
)

// StripCodeFence removes one markdown code fence surrounding text, if any.
// Models sometimes wrap source files or JSON replies in ```go / ```json.
func StripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if m := reFence.FindStringSubmatch(t); m != nil {
		return m[1]
	}
	return text
}

// CollapseBlankLines turns every run of three or more blank lines into a
// single blank line.
func CollapseBlankLines(text string) string {
	return reBlankRuns.ReplaceAllString(text, "\n\n")
}

