package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/frherrer/mdconform/internal/domain"
)

// section is one heading while the tree is being assembled.
type section struct {
	name     string
	line     int
	level    int
	children []*section
	test     *domain.Test
}

// treeBuilder assembles groups and tests from a flat stream of headings,
// annotations and tagged blocks, in document order.
type treeBuilder struct {
	file  string
	tags  map[string]bool
	roots []*section
	stack []*section

	pending     domain.Metadata
	pendingLine int
}

func newTreeBuilder(file string, tags []string) *treeBuilder {
	tagSet := make(map[string]bool)
	for _, t := range tags {
		tagSet[t] = true
	}
	return &treeBuilder{file: file, tags: tagSet}
}

func (b *treeBuilder) heading(level int, name string, line int) {
	b.pending = nil
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	s := &section{name: name, line: line, level: level}
	if len(b.stack) == 0 {
		b.roots = append(b.roots, s)
	} else {
		parent := b.stack[len(b.stack)-1]
		parent.children = append(parent.children, s)
	}
	b.stack = append(b.stack, s)
}

// annotate records metadata for the next block. Consecutive annotations merge.
func (b *treeBuilder) annotate(meta domain.Metadata, line int) {
	if b.pending == nil {
		b.pending = make(domain.Metadata)
		b.pendingLine = line
	}
	for k, v := range meta {
		b.pending[k] = v
	}
}

// discard drops a pending annotation; it only applies to the block that
// immediately follows it.
func (b *treeBuilder) discard() {
	b.pending = nil
}

// block adds a content block to the current section's test. attrs come from
// the block's own info string and override the preceding annotation.
func (b *treeBuilder) block(tag, content string, line int, attrs domain.Metadata) {
	meta := b.pending
	b.pending = nil
	if !b.tags[tag] {
		return
	}

	if len(b.stack) == 0 {
		// Blocks before the first heading belong to a section named after the file.
		base := filepath.Base(b.file)
		b.heading(1, strings.TrimSuffix(base, filepath.Ext(base)), line)
	}
	s := b.stack[len(b.stack)-1]
	if s.test == nil {
		s.test = &domain.Test{
			Name:        s.name,
			Line:        s.line,
			Blocks:      make(map[string][]string),
			Annotations: make(map[string][]domain.Metadata),
		}
	}

	if len(attrs) > 0 {
		if meta == nil {
			meta = make(domain.Metadata)
		}
		for k, v := range attrs {
			meta[k] = v
		}
	}

	s.test.Blocks[tag] = append(s.test.Blocks[tag], content)
	if len(meta) > 0 {
		s.test.Annotations[tag] = append(s.test.Annotations[tag], meta)
	}
}

// document converts the assembled sections. Top-level sections are always
// groups; nested sections become a group when they have subsections and a
// test when they hold blocks.
func (b *treeBuilder) document() *domain.Document {
	doc := &domain.Document{Path: b.file}
	for _, root := range b.roots {
		g := root.group()
		if root.test != nil {
			g.Tests = append([]*domain.Test{root.test}, g.Tests...)
		}
		doc.Groups = append(doc.Groups, g)
	}
	return doc
}

func (s *section) group() *domain.Group {
	g := &domain.Group{Name: s.name, Line: s.line}
	for _, c := range s.children {
		if len(c.children) > 0 {
			g.Children = append(g.Children, c.group())
		}
		if c.test != nil {
			g.Tests = append(g.Tests, c.test)
		}
	}
	return g
}

// decodeMeta decodes an annotation body such as {"type": "request"}.
func decodeMeta(body string) (domain.Metadata, error) {
	var meta domain.Metadata
	if err := yaml.Unmarshal([]byte(body), &meta); err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, fmt.Errorf("annotation %q is not a mapping", body)
	}
	return meta, nil
}

// decodeAttrs types info-string attribute values the way YAML types scalars,
// so noScan=true is a boolean and type=request a string.
func decodeAttrs(attrs map[string]string) domain.Metadata {
	if len(attrs) == 0 {
		return nil
	}
	meta := make(domain.Metadata, len(attrs))
	for k, v := range attrs {
		var scalar any
		if err := yaml.Unmarshal([]byte(v), &scalar); err != nil || scalar == nil {
			meta[k] = v
			continue
		}
		switch scalar.(type) {
		case map[string]any, []any:
			meta[k] = v
		default:
			meta[k] = scalar
		}
	}
	return meta
}
