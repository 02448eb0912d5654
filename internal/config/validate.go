package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/frherrer/mdconform/internal/domain"
	tmpl "github.com/frherrer/mdconform/internal/template"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	// Input validation
	if len(cfg.Input.Directories) == 0 {
		errs = append(errs, "input.directories must not be empty")
	}
	if len(cfg.Input.Include) == 0 {
		errs = append(errs, "input.include must not be empty")
	}

	// Tags validation
	seen := make(map[string]string)
	for _, t := range []struct{ name, tag string }{
		{"tags.input", cfg.Tags.Input},
		{"tags.url", cfg.Tags.URL},
		{"tags.expected", cfg.Tags.Expected},
	} {
		name, tag := t.name, t.tag
		if tag == "" {
			errs = append(errs, fmt.Sprintf("%s must not be empty", name))
			continue
		}
		if other, dup := seen[tag]; dup {
			errs = append(errs, fmt.Sprintf("%s and %s must differ (both %q)", other, name, tag))
		}
		seen[tag] = name
	}

	// Fixture validation
	if cfg.Fixtures.Binary == "" {
		errs = append(errs, "fixtures.binary must not be empty")
	}
	templates := append([]string{cfg.Fixtures.Binary}, cfg.Fixtures.BuildCommand...)
	templates = append(templates, cfg.Fixtures.RunArgs...)
	for _, t := range templates {
		if _, err := tmpl.Compile("fixtures", []string{t}); err != nil {
			errs = append(errs, fmt.Sprintf("fixtures template %q is invalid: %v", t, err))
		}
	}
	if cfg.Fixtures.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Fixtures.Timeout); err != nil || d < 0 {
			errs = append(errs, fmt.Sprintf("fixtures.timeout must be a non-negative duration (got %q)", cfg.Fixtures.Timeout))
		}
	}

	// Run validation
	if cfg.Run.Parallelism < 1 {
		errs = append(errs, fmt.Sprintf("run.parallelism must be at least 1 (got %d)", cfg.Run.Parallelism))
	}
	for _, v := range cfg.Run.Variants {
		if v != string(domain.VariantStrict) && v != string(domain.VariantLoose) {
			errs = append(errs, fmt.Sprintf("run.variants entries must be strict or loose (got %q)", v))
		}
	}

	// Validate logging level
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
