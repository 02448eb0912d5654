// Package orchestrator turns parsed spec documents into a nested suite of
// independent checks and runs them against cached engine fixtures.
package orchestrator

import (
	"context"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/frherrer/mdconform/internal/classifier"
	"github.com/frherrer/mdconform/internal/domain"
	"github.com/frherrer/mdconform/internal/fixture"
	"github.com/frherrer/mdconform/internal/matcher"
	"github.com/frherrer/mdconform/internal/normalize"
)

// Suite is the check tree of one document.
type Suite struct {
	Path   string
	Groups []*GroupNode
}

// GroupNode mirrors a document group. Child groups come before tests.
type GroupNode struct {
	Name   string
	Line   int
	Groups []*GroupNode
	Tests  []*TestNode
}

// TestNode holds the checks of one test, or the load error that prevented
// them from being created.
type TestNode struct {
	Name   string
	Line   int
	Path   []string
	Err    error
	Checks []*Check
}

// Check is one classified run, ready to execute.
type Check struct {
	Name     string
	Path     []string
	File     string
	Line     int
	Run      domain.ClassifiedRun
	Input    []byte
	Expected []matcher.Matcher
	Options  fixture.CheckOptions

	fixtures *fixture.Cache
}

// Key returns the fixture key the check runs against.
func (c *Check) Key() fixture.Key {
	return fixture.Key{Variant: c.Run.Variant, Scenario: c.Run.Scenario}
}

// Execute resolves the check's fixture and runs it. Every error is located
// at the check's document path.
func (c *Check) Execute(ctx context.Context) error {
	f, err := c.fixtures.Get(ctx, c.Key())
	if err != nil {
		return domain.WithLocation(err, "build", c.File, c.Line, c.Path)
	}
	if err := f.Check(ctx, c.Input, c.Expected, c.Options); err != nil {
		return domain.WithLocation(err, "check", c.File, c.Line, c.Path)
	}
	return nil
}

// Loader builds suites from documents.
type Loader struct {
	tags       classifier.Tags
	normalizer *normalize.Normalizer
	fixtures   *fixture.Cache
	variants   []domain.Variant
	log        *logrus.Logger
}

// NewLoader creates a Loader. An empty variants list keeps every variant.
func NewLoader(
	tags classifier.Tags,
	n *normalize.Normalizer,
	fixtures *fixture.Cache,
	variants []domain.Variant,
	log *logrus.Logger,
) *Loader {
	return &Loader{
		tags:       tags,
		normalizer: n,
		fixtures:   fixtures,
		variants:   variants,
		log:        log,
	}
}

// Load walks doc depth-first in declaration order. Problems with a single
// test are recorded on its TestNode and never stop the walk.
func (l *Loader) Load(doc *domain.Document) *Suite {
	s := &Suite{Path: doc.Path}
	for _, g := range doc.Groups {
		s.Groups = append(s.Groups, l.loadGroup(doc.Path, g, nil))
	}
	return s
}

func (l *Loader) loadGroup(file string, g *domain.Group, parent []string) *GroupNode {
	path := append(slices.Clone(parent), g.Name)
	node := &GroupNode{Name: g.Name, Line: g.Line}
	for _, child := range g.Children {
		node.Groups = append(node.Groups, l.loadGroup(file, child, path))
	}
	for _, t := range g.Tests {
		node.Tests = append(node.Tests, l.loadTest(file, t, path))
	}
	return node
}

func (l *Loader) loadTest(file string, t *domain.Test, parent []string) *TestNode {
	path := append(slices.Clone(parent), t.Name)
	node := &TestNode{Name: t.Name, Line: t.Line, Path: path}

	c, err := classifier.Classify(t, l.tags)
	if err != nil {
		node.Err = domain.WithLocation(err, "classify", file, t.Line, path)
		l.log.Debugf("Skipping %s:%d: %v", file, t.Line, err)
		return node
	}
	if len(c.Unknown) > 0 {
		l.log.Debugf("Ignoring unknown metadata %v in %s:%d", c.Unknown, file, t.Line)
	}

	input, err := l.normalizer.Normalize(t.Blocks[c.PrimaryTag][0])
	if err != nil {
		node.Err = domain.WithLocation(err, "load", file, t.Line, path)
		return node
	}
	expected, err := matcher.Build(t.Blocks[l.tags.Expected][0])
	if err != nil {
		node.Err = domain.WithLocation(err, "load", file, t.Line, path)
		return node
	}

	for _, run := range c.Runs() {
		if len(l.variants) > 0 && !slices.Contains(l.variants, run.Variant) {
			continue
		}
		node.Checks = append(node.Checks, &Check{
			Name:     run.Name(),
			Path:     append(slices.Clone(path), run.Name()),
			File:     file,
			Line:     t.Line,
			Run:      run,
			Input:    input,
			Expected: expected,
			Options:  fixture.CheckOptions{NoScan: c.Options.NoScan},
			fixtures: l.fixtures,
		})
	}
	return node
}

// Walk visits every test node in reporting order: a group's child groups,
// then its own tests.
func (s *Suite) Walk(fn func(t *TestNode)) {
	for _, g := range s.Groups {
		g.walk(fn)
	}
}

func (g *GroupNode) walk(fn func(t *TestNode)) {
	for _, child := range g.Groups {
		child.walk(fn)
	}
	for _, t := range g.Tests {
		fn(t)
	}
}
