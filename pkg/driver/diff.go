package driver

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

func normalizeListing(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

// Diff compares two VM listings line by line, ignoring line-ending style.
// When they differ it returns every line prefixed with "  ", "- " (only in
// expected) or "+ " (only in actual).
func Diff(expected, actual string) (string, bool) {
	expected, actual = normalizeListing(expected), normalizeListing(actual)
	if expected == actual {
		return "", true
	}

	differ := diffmatchpatch.New()
	differ.DiffTimeout = 0

	hashed1, hashed2, lineArray := differ.DiffLinesToChars(expected, actual)
	diffs := differ.DiffCharsToLines(differ.DiffMain(hashed1, hashed2, false), lineArray)

	var b strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			b.WriteString(prefix + line)
		}
	}
	return b.String(), false
}
