// Package generator turns the configured documentation tree into check
// suites: scan, parse, then load through the orchestrator.
package generator

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/frherrer/mdconform/internal/classifier"
	"github.com/frherrer/mdconform/internal/config"
	"github.com/frherrer/mdconform/internal/domain"
	"github.com/frherrer/mdconform/internal/eval"
	"github.com/frherrer/mdconform/internal/fixture"
	"github.com/frherrer/mdconform/internal/normalize"
	"github.com/frherrer/mdconform/internal/orchestrator"
	"github.com/frherrer/mdconform/internal/parser"
	"github.com/frherrer/mdconform/internal/scanner"
)

// Generator produces suites from the documents a Config points at.
type Generator interface {
	Generate(cfg *config.Config) ([]*orchestrator.Suite, error)
}

// DefaultGenerator implements Generator by wiring all components together.
type DefaultGenerator struct {
	scanner  scanner.Scanner
	registry parser.ParserRegistry
	loader   *orchestrator.Loader
	log      *logrus.Logger
}

// NewGenerator creates a new DefaultGenerator with all dependencies.
func NewGenerator(
	s scanner.Scanner,
	r parser.ParserRegistry,
	loader *orchestrator.Loader,
	log *logrus.Logger,
) *DefaultGenerator {
	return &DefaultGenerator{
		scanner:  s,
		registry: r,
		loader:   loader,
		log:      log,
	}
}

// NewRegistry returns a registry with every built-in document parser.
func NewRegistry() *parser.DefaultRegistry {
	registry := parser.NewRegistry()
	registry.Register(parser.NewMarkdownParser())
	registry.Register(parser.NewAsciiDocParser())
	return registry
}

// NewLoader builds the loader for cfg: the placeholder evaluator, the
// process-backed fixture cache and the variant filter.
func NewLoader(cfg *config.Config, log *logrus.Logger) (*orchestrator.Loader, *fixture.Cache, error) {
	interp, err := eval.New(eval.DefaultImports...)
	if err != nil {
		return nil, nil, domain.NewError("config", "", 0, "failed to start expression evaluator", err)
	}
	builder, err := fixture.NewExecBuilder(&cfg.Fixtures, log)
	if err != nil {
		return nil, nil, err
	}
	cache := fixture.NewCache(builder, log)

	var variants []domain.Variant
	for _, v := range cfg.Run.Variants {
		variants = append(variants, domain.Variant(v))
	}

	tags := classifier.Tags{
		Input:    cfg.Tags.Input,
		URL:      cfg.Tags.URL,
		Expected: cfg.Tags.Expected,
	}
	return orchestrator.NewLoader(tags, normalize.New(interp), cache, variants, log), cache, nil
}

// Generate runs the pipeline: scan → parse → load. A document that fails to
// read or parse is reported in the returned error; the others still load.
func (g *DefaultGenerator) Generate(cfg *config.Config) ([]*orchestrator.Suite, error) {
	files := g.discover(cfg)
	if len(files) == 0 {
		g.log.Warn("No documentation files found")
		return nil, nil
	}
	g.log.Infof("Found %d documentation file(s)", len(files))

	var suites []*orchestrator.Suite
	var errs []error
	for _, filePath := range files {
		doc, err := g.parse(cfg, filePath)
		if err != nil {
			g.log.Errorf("Skipping %s: %v", filePath, err)
			errs = append(errs, err)
			continue
		}
		if doc == nil || len(doc.Groups) == 0 {
			g.log.Debugf("No tests found in %s", filePath)
			continue
		}
		suites = append(suites, g.loader.Load(doc))
	}

	g.log.Infof("Loaded %d suite(s)", len(suites))
	return suites, errors.Join(errs...)
}

// discover scans every input directory. A file reachable from more than one
// directory is kept once, at its first position.
func (g *DefaultGenerator) discover(cfg *config.Config) []string {
	var all []string
	seen := make(map[string]bool)
	for _, dir := range cfg.Input.Directories {
		g.log.Debugf("Scanning directory: %s", dir)
		files, err := g.scanner.Scan(dir, cfg.Input.Include, cfg.Input.Exclude)
		if err != nil {
			g.log.Warnf("Failed to scan directory %s: %v", dir, err)
			continue
		}
		for _, f := range files {
			key := filepath.Clean(f)
			if abs, err := filepath.Abs(f); err == nil {
				key = abs
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, f)
		}
	}
	return all
}

// parse reads filePath and parses it with the parser for its extension. It
// returns a nil document when no parser handles the file.
func (g *DefaultGenerator) parse(cfg *config.Config, filePath string) (*domain.Document, error) {
	g.log.Debugf("Processing: %s", filePath)

	ext := filepath.Ext(filePath)
	p, err := g.registry.ParserFor(ext)
	if err != nil {
		g.log.Warnf("No parser for %s, skipping %s", ext, filePath)
		return nil, nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", filePath, 0,
			"failed to read file",
			"check that the file exists and has read permissions",
			err)
	}

	return p.Parse(filePath, content, cfg.Tags.All())
}
