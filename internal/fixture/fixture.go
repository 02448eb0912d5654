// Package fixture builds, caches and drives engine fixtures: one runnable
// engine per (variant, scenario type) key.
package fixture

import (
	"context"
	"fmt"

	"github.com/frherrer/mdconform/internal/domain"
	"github.com/frherrer/mdconform/internal/matcher"
)

// Key identifies a fixture.
type Key struct {
	Variant  domain.Variant
	Scenario domain.ScenarioType
}

func (k Key) String() string {
	return fmt.Sprintf("%s, %s", k.Variant, k.Scenario)
}

// Name is a file-name friendly form of the key.
func (k Key) Name() string {
	return fmt.Sprintf("%s-%s", k.Variant, k.Scenario)
}

// CheckOptions tune a single check.
type CheckOptions struct {
	NoScan bool
}

// Fixture is a built engine.
type Fixture interface {
	// Check feeds input to the engine and compares its output lines with
	// expected. A mismatch is reported as a KindAssertionMismatch error.
	Check(ctx context.Context, input []byte, expected []matcher.Matcher, opts CheckOptions) error
}

// Builder produces the fixture for one key.
type Builder interface {
	Build(ctx context.Context, key Key) (Fixture, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context, key Key) (Fixture, error)

// Build calls f(ctx, key).
func (f BuilderFunc) Build(ctx context.Context, key Key) (Fixture, error) {
	return f(ctx, key)
}
