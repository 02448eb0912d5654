// Package normalize turns the literate text of an input block into the exact
// bytes fed to the engine under test.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/frherrer/mdconform/internal/domain"
)

// Evaluator computes the replacement text of a ${...} placeholder.
type Evaluator interface {
	Evaluate(expr string) (string, error)
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(expr string) (string, error)

// Evaluate calls f(expr).
func (f EvaluatorFunc) Evaluate(expr string) (string, error) {
	return f(expr)
}

// CRLF is the canonical line terminator of normalized input.
const CRLF = "\r\n"

var (
	continuationRe = regexp.MustCompile(`\\(?:\r\n|\r|\n)`)
	terminatorRe   = regexp.MustCompile(`\r\n|\r|\n`)
	// At most three digits, capped so the value fits in one byte.
	octalRe       = regexp.MustCompile(`\\([0-3][0-7]{0,2}|[4-7][0-7]?)`)
	placeholderRe = regexp.MustCompile(`\$\{(.+?)\}`)

	escapeBytes = map[byte]string{'r': "\r", 'n': "\n", 't': "\t", 'f': "\f"}
)

// Normalizer applies the input pipeline. A nil Eval rejects any placeholder.
type Normalizer struct {
	Eval Evaluator
}

// New creates a Normalizer using eval for placeholders.
func New(eval Evaluator) *Normalizer {
	return &Normalizer{Eval: eval}
}

// Normalize converts raw block text into engine input. The steps run in a
// fixed order: trailing terminator, continuations, terminator
// canonicalization, escapes, octal escapes, placeholders.
func (n *Normalizer) Normalize(raw string) ([]byte, error) {
	s := StripTrailingTerminator(raw)
	s = continuationRe.ReplaceAllString(s, "")
	s = terminatorRe.ReplaceAllString(s, CRLF)
	s = DecodeEscapes(s, "rntf")
	s = octalRe.ReplaceAllStringFunc(s, func(m string) string {
		v, _ := strconv.ParseUint(m[1:], 8, 8)
		return string([]byte{byte(v)})
	})

	var evalErr error
	s = placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		if evalErr != nil {
			return m
		}
		expr := m[2 : len(m)-1]
		if n.Eval == nil {
			evalErr = fmt.Errorf("no evaluator configured for ${%s}", expr)
			return m
		}
		out, err := n.Eval.Evaluate(expr)
		if err != nil {
			evalErr = fmt.Errorf("evaluating ${%s}: %w", expr, err)
			return m
		}
		return out
	})
	if evalErr != nil {
		return nil, domain.NewKindError("load", domain.KindInvalidPlaceholder, "placeholder evaluation failed", evalErr)
	}

	return []byte(s), nil
}

// StripTrailingTerminator removes exactly one trailing \r\n, \r or \n.
func StripTrailingTerminator(s string) string {
	switch {
	case strings.HasSuffix(s, "\r\n"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, "\n"), strings.HasSuffix(s, "\r"):
		return s[:len(s)-1]
	}
	return s
}

// DecodeEscapes replaces the escape `\x` with its control byte for each
// letter x of which (r, n, t or f), one letter at a time in order.
func DecodeEscapes(s, which string) string {
	for i := 0; i < len(which); i++ {
		to, ok := escapeBytes[which[i]]
		if !ok {
			continue
		}
		s = strings.ReplaceAll(s, `\`+string(which[i]), to)
	}
	return s
}
