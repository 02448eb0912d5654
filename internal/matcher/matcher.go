// Package matcher parses expected-output blocks into per-line matchers and
// compares them against the lines an engine fixture emits.
package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/frherrer/mdconform/internal/domain"
	"github.com/frherrer/mdconform/internal/normalize"
)

// Kind tells literal and pattern matchers apart.
type Kind int

const (
	Literal Kind = iota
	Pattern
)

func (k Kind) String() string {
	if k == Pattern {
		return "pattern"
	}
	return "literal"
}

// Matcher is the expectation for one line of engine output.
type Matcher struct {
	Kind Kind
	Text string // the literal line, or the pattern source without delimiters
	re   *regexp.Regexp
}

// NewLiteral returns a matcher comparing lines for exact equality.
func NewLiteral(text string) Matcher {
	return Matcher{Kind: Literal, Text: text}
}

// NewPattern compiles expr into a pattern matcher.
func NewPattern(expr string) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Matcher{}, err
	}
	return Matcher{Kind: Pattern, Text: expr, re: re}, nil
}

// Match reports whether line satisfies the matcher. Patterns match anywhere
// in the line unless anchored.
func (m Matcher) Match(line string) bool {
	if m.Kind == Pattern {
		return m.re.MatchString(line)
	}
	return line == m.Text
}

// String renders the matcher the way it is written in a spec.
func (m Matcher) String() string {
	if m.Kind == Pattern {
		return "/" + m.Text + "/"
	}
	return m.Text
}

var lineSplitRe = regexp.MustCompile(`\r\n|\r|\n`)

// Build parses an expected-output block. Only \t and \f escapes are decoded;
// the block is expected to end with a line terminator, which does not yield
// a matcher of its own.
func Build(raw string) ([]Matcher, error) {
	lines := lineSplitRe.Split(normalize.DecodeEscapes(raw, "tf"), -1)
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	matchers := make([]Matcher, 0, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) >= 2 && strings.HasPrefix(trimmed, "/") && strings.HasSuffix(trimmed, "/") {
			m, err := NewPattern(trimmed[1 : len(trimmed)-1])
			if err != nil {
				e := domain.NewKindError("load", domain.KindInvalidPattern,
					fmt.Sprintf("expected line %d is not a valid pattern", i+1), err)
				return nil, e
			}
			matchers = append(matchers, m)
			continue
		}
		matchers = append(matchers, NewLiteral(line))
	}
	return matchers, nil
}
