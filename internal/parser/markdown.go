package parser

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/frherrer/mdconform/internal/domain"
)

// MarkdownParser parses literate Markdown spec documents using goldmark.
type MarkdownParser struct{}

// NewMarkdownParser creates a new MarkdownParser.
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *MarkdownParser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

var metaCommentRe = regexp.MustCompile(`(?s)^<!--\s*meta=(.*?)\s*-->$`)

// Parse parses a Markdown document into groups and tests. Headings nest by
// level; fenced blocks with a listed tag attach to the nearest heading. An
// HTML comment of the form <!-- meta={...} --> annotates the next block.
func (p *MarkdownParser) Parse(filePath string, content []byte, tags []string) (*domain.Document, error) {
	md := goldmark.New()
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)

	tree := newTreeBuilder(filePath, tags)

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			headingText := extractText(node, content)
			lineNum := 0
			if node.Lines().Len() > 0 {
				lineNum = lineNumber(content, node.Lines().At(0).Start)
			} else if node.HasChildren() {
				// For ATX headings, use the child text segment position
				if first, ok := node.FirstChild().(*ast.Text); ok {
					lineNum = lineNumber(content, first.Segment.Start)
				}
			}
			tree.heading(node.Level, headingText, lineNum)

		case *ast.FencedCodeBlock:
			// Parse info string: "tag attr1=val1 attr2=val2"
			var info string
			if node.Info != nil {
				info = string(node.Info.Segment.Value(content))
			}
			parts := parseInfoString(info)
			tag := parts["_tag"]
			delete(parts, "_tag")

			// Raw content, trailing newline included
			var buf bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(content))
			}

			lineNum := 0
			if lines.Len() > 0 {
				lineNum = lineNumber(content, lines.At(0).Start)
			} else if node.Info != nil {
				lineNum = lineNumber(content, node.Info.Segment.Start) + 1
			}

			tree.block(tag, buf.String(), lineNum, decodeAttrs(parts))

		case *ast.HTMLBlock:
			var buf bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(content))
			}
			if node.HasClosure() {
				buf.Write(node.ClosureLine.Value(content))
			}
			htmlText := strings.TrimSpace(buf.String())
			m := metaCommentRe.FindStringSubmatch(htmlText)
			if m == nil {
				tree.discard()
				return ast.WalkContinue, nil
			}
			lineNum := 0
			if lines.Len() > 0 {
				lineNum = lineNumber(content, lines.At(0).Start)
			}
			meta, err := decodeMeta(m[1])
			if err != nil {
				return ast.WalkStop, domain.NewError("parse", filePath, lineNum, "invalid meta annotation", err)
			}
			tree.annotate(meta, lineNum)

		default:
			// Prose, lists, quotes and the like separate an annotation from its block.
			if n.Type() == ast.TypeBlock {
				tree.discard()
			}
		}

		return ast.WalkContinue, nil
	})

	if err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", filePath, 0,
			"failed to walk markdown AST",
			"annotations must look like <!-- meta={\"type\": \"request\"} --> on the line before the block",
			err)
	}

	return tree.document(), nil
}

// parseInfoString parses a fenced code block info string like:
//
//	"http type=request noScan=true"
//
// Returns map with _tag for the language tag and other key-value pairs.
func parseInfoString(info string) map[string]string {
	result := make(map[string]string)
	info = strings.TrimSpace(info)
	if info == "" {
		return result
	}

	// First token is the language tag
	parts := splitInfoString(info)
	if len(parts) == 0 {
		return result
	}

	result["_tag"] = parts[0]

	// Remaining tokens are key=value pairs
	for _, part := range parts[1:] {
		if idx := strings.Index(part, "="); idx > 0 {
			key := part[:idx]
			val := part[idx+1:]
			// Remove surrounding quotes
			val = strings.Trim(val, "\"'")
			result[key] = val
		}
	}

	return result
}

// splitInfoString splits the info string respecting quoted values.
func splitInfoString(s string) []string {
	var parts []string
	var current strings.Builder
	inQuote := false
	quoteChar := byte(0)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			if c == quoteChar {
				inQuote = false
				current.WriteByte(c)
			} else {
				current.WriteByte(c)
			}
		} else {
			if c == '"' || c == '\'' {
				inQuote = true
				quoteChar = c
				current.WriteByte(c)
			} else if c == ' ' || c == '\t' {
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

// extractText gets the text content of a heading node, including text
// nested in emphasis or code spans.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(extractText(child, source))
		}
	}
	return buf.String()
}

// lineNumber calculates the 1-based line number for a byte offset.
func lineNumber(content []byte, offset int) int {
	return bytes.Count(content[:offset], []byte("\n")) + 1
}
