package matcher

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/frherrer/mdconform/internal/domain"
)

// Mismatch describes how observed output departs from the expectation.
type Mismatch struct {
	Line     int // 1-based index of the first differing line
	Expected []string
	Actual   []string
	Diff     string
}

func (m *Mismatch) Error() string {
	var b strings.Builder
	if len(m.Expected) != len(m.Actual) {
		fmt.Fprintf(&b, "expected %d line(s), got %d; ", len(m.Expected), len(m.Actual))
	}
	fmt.Fprintf(&b, "first difference at line %d\n%s", m.Line, m.Diff)
	return b.String()
}

// Compare checks actual output lines positionally against expected. It
// returns an AssertionMismatch error wrapping a *Mismatch, or nil.
func Compare(expected []Matcher, actual []string) error {
	first := 0
	for first < len(expected) && first < len(actual) && expected[first].Match(actual[first]) {
		first++
	}
	if first == len(expected) && first == len(actual) {
		return nil
	}

	want := make([]string, len(expected))
	for i, m := range expected {
		want[i] = m.String()
	}
	// Lines satisfied by a pattern are shown as the pattern so they diff equal.
	shown := make([]string, len(actual))
	for i, line := range actual {
		shown[i] = line
		if i < len(expected) && expected[i].Match(line) {
			shown[i] = want[i]
		}
	}
	mm := &Mismatch{
		Line:     first + 1,
		Expected: want,
		Actual:   actual,
		Diff:     lineDiff(want, shown),
	}
	return domain.NewKindError("check", domain.KindAssertionMismatch, "output does not match expectation", mm)
}

// lineDiff renders a line-level diff of expected vs actual, prefixing
// removed lines with "-" and added lines with "+".
func lineDiff(expected, actual []string) string {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	a, b, lines := dmp.DiffLinesToChars(joinLines(expected), joinLines(actual))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
		}
	}
	return out.String()
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
