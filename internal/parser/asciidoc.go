package parser

import (
	"regexp"
	"strings"

	"github.com/frherrer/mdconform/internal/domain"
)

// AsciiDocParser parses literate AsciiDoc spec documents using regex patterns.
type AsciiDocParser struct{}

// NewAsciiDocParser creates a new AsciiDocParser.
func NewAsciiDocParser() *AsciiDocParser {
	return &AsciiDocParser{}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *AsciiDocParser) SupportedExtensions() []string {
	return []string{".adoc", ".asciidoc"}
}

var (
	// Matches [source,tag,attr1="val1",attr2="val2"]
	asciidocSourceRe = regexp.MustCompile(`^\[source,([^,\]]+)(?:,(.+))?\]\s*$`)
	// Matches ---- delimiter
	asciidocDelimRe = regexp.MustCompile(`^----+\s*$`)
	// Matches == Heading, === Subheading, etc.
	asciidocHeadingRe = regexp.MustCompile(`^(={2,6})\s+(.+)$`)
	// Matches // meta={...}
	asciidocMetaRe = regexp.MustCompile(`^//\s*meta=(.+)$`)
)

// Parse parses an AsciiDoc document into groups and tests. Section titles
// nest by level; a "// meta={...}" comment line annotates the next
// [source,tag] listing block.
func (p *AsciiDocParser) Parse(filePath string, content []byte, tags []string) (*domain.Document, error) {
	lines := strings.Split(string(content), "\n")

	tree := newTreeBuilder(filePath, tags)

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		// AsciiDoc single-line comments start with //
		if m := asciidocMetaRe.FindStringSubmatch(trimmed); m != nil {
			meta, err := decodeMeta(m[1])
			if err != nil {
				return nil, domain.NewErrorWithSuggestion("parse", filePath, i+1,
					"invalid meta annotation",
					"annotations must look like // meta={\"type\": \"request\"} on the line before the block",
					err)
			}
			tree.annotate(meta, i+1)
			continue
		}

		// Check for headings
		if m := asciidocHeadingRe.FindStringSubmatch(line); m != nil {
			level := len(m[1]) - 1 // == is level 1, === is level 2
			tree.heading(level, strings.TrimSpace(m[2]), i+1)
			continue
		}

		// Check for [source,tag,...] directive
		if m := asciidocSourceRe.FindStringSubmatch(line); m != nil {
			tag := strings.TrimSpace(m[1])

			// Parse attributes from the directive
			attrs := make(map[string]string)
			if m[2] != "" {
				attrs = parseAsciidocAttrs(m[2])
			}

			// Expect ---- delimiter on next line
			i++
			if i >= len(lines) {
				break
			}
			if !asciidocDelimRe.MatchString(lines[i]) {
				continue
			}

			// Read content until closing ----
			i++
			var contentLines []string
			contentStartLine := i + 1
			for i < len(lines) && !asciidocDelimRe.MatchString(lines[i]) {
				contentLines = append(contentLines, lines[i]+"\n")
				i++
			}

			tree.block(tag, strings.Join(contentLines, ""), contentStartLine, decodeAttrs(attrs))
			continue
		}

		if trimmed != "" {
			tree.discard()
		}
	}

	return tree.document(), nil
}

// parseAsciidocAttrs parses comma-separated key="value" or key=value attributes.
func parseAsciidocAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	// Split on comma, but respect quotes
	parts := splitAsciidocAttrs(s)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if idx := strings.Index(part, "="); idx > 0 {
			key := strings.TrimSpace(part[:idx])
			val := strings.TrimSpace(part[idx+1:])
			val = strings.Trim(val, "\"'")
			attrs[key] = val
		}
	}
	return attrs
}

// splitAsciidocAttrs splits on commas, respecting quoted values.
func splitAsciidocAttrs(s string) []string {
	var parts []string
	var current strings.Builder
	inQuote := false
	quoteChar := byte(0)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			if c == quoteChar {
				inQuote = false
			}
			current.WriteByte(c)
		} else {
			if c == '"' || c == '\'' {
				inQuote = true
				quoteChar = c
				current.WriteByte(c)
			} else if c == ',' {
				if current.Len() > 0 {
					parts = append(parts, current.String())
					current.Reset()
				}
			} else {
				current.WriteByte(c)
			}
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
