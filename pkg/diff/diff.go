// Package diff renders line-oriented before/after diffs for plan output.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Render compares two multi-line values and returns a minimal diff with
// -/+ line markers. Returns an empty string when the values are identical.
func Render(current, desired string) string {
	if current == desired {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(ensureTrailingNewline(current), ensureTrailingNewline(desired))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		marker := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			marker = "- "
		case diffmatchpatch.DiffInsert:
			marker = "+ "
		}
		for _, line := range splitLines(d.Text) {
			out.WriteString(marker)
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
	return strings.TrimRight(out.String(), "\n")
}

func ensureTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
