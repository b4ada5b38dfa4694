package agent

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// lineChanges counts added and removed lines between two versions of a file.
func lineChanges(before, after string) (additions, deletions int) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			additions += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			deletions += countLines(d.Text)
		}
	}
	return additions, deletions
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

func diffSummary(path, before, after string) string {
	add, del := lineChanges(before, after)
	if add == 0 && del == 0 {
		return fmt.Sprintf("Regenerated %s unchanged", path)
	}
	return fmt.Sprintf("Regenerated %s: +%d -%d lines", path, add, del)
}
