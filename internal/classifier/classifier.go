// Package classifier turns a test's content blocks and metadata into the
// set of (variant, scenario type) runs it must be checked under.
package classifier

import (
	"fmt"

	"github.com/frherrer/mdconform/internal/domain"
)

// Tags names the content block roles the classifier reads.
type Tags struct {
	Input    string
	URL      string
	Expected string
}

// Classification is the validated run matrix for one test.
type Classification struct {
	Test       *domain.Test
	PrimaryTag string
	Options    domain.Options
	Unknown    []string // metadata keys that were ignored
	Variants   []domain.Variant
	Scenarios  []domain.ScenarioType
}

// scenariosByType maps the `type` metadata value to its scenario types.
var scenariosByType = map[string][]domain.ScenarioType{
	"request":         {domain.ScenarioNone, domain.ScenarioRequest},
	"response":        {domain.ScenarioNone, domain.ScenarioResponse},
	"request-only":    {domain.ScenarioRequest},
	"response-only":   {domain.ScenarioResponse},
	"request-finish":  {domain.ScenarioRequestFinish},
	"response-finish": {domain.ScenarioResponseFinish},
}

// Classify validates test and derives its run matrix. It never panics on
// malformed input; every problem is returned as a *domain.Error.
func Classify(test *domain.Test, tags Tags) (*Classification, error) {
	primary := tags.Input
	isURL := len(test.Blocks[tags.URL]) > 0
	if isURL {
		primary = tags.URL
	}

	if err := single(test, primary); err != nil {
		return nil, err
	}

	var meta domain.Metadata
	if annotations := test.Annotations[primary]; len(annotations) > 0 {
		meta = annotations[0]
	} else if !isURL {
		return nil, newError(domain.KindMissingMetadata,
			fmt.Sprintf("missing required %q metadata", primary))
	}

	if isURL {
		meta = withoutKey(meta, domain.MetaType)
	}

	opts, unknown, err := meta.Options()
	if err != nil {
		return nil, err
	}

	c := &Classification{
		Test:       test,
		PrimaryTag: primary,
		Options:    opts,
		Unknown:    unknown,
	}

	if isURL {
		c.Scenarios = []domain.ScenarioType{domain.ScenarioURL}
	} else {
		if !opts.HasType {
			return nil, newError(domain.KindMissingMetadata, "missing required `type` metadata")
		}
		scenarios, ok := scenariosByType[opts.Type]
		if !ok {
			return nil, newError(domain.KindInvalidMetadataValue,
				fmt.Sprintf("invalid `type` metadata %q", opts.Type))
		}
		c.Scenarios = scenarios
	}

	if err := single(test, tags.Expected); err != nil {
		return nil, err
	}

	switch {
	case !opts.HasMode:
		c.Variants = domain.AllVariants
	case opts.Mode == string(domain.VariantStrict):
		c.Variants = []domain.Variant{domain.VariantStrict}
	case opts.Mode == string(domain.VariantLoose):
		c.Variants = []domain.Variant{domain.VariantLoose}
	default:
		return nil, newError(domain.KindInvalidMetadataValue,
			fmt.Sprintf("invalid `mode` metadata %q", opts.Mode))
	}

	return c, nil
}

// Runs returns the cross product of variants and scenario types, variants
// outermost.
func (c *Classification) Runs() []domain.ClassifiedRun {
	runs := make([]domain.ClassifiedRun, 0, len(c.Variants)*len(c.Scenarios))
	for _, v := range c.Variants {
		for _, s := range c.Scenarios {
			runs = append(runs, domain.ClassifiedRun{Test: c.Test, Variant: v, Scenario: s})
		}
	}
	return runs
}

// withoutKey returns a copy of m lacking key. url tests do not read `type`,
// so its value is never validated for them.
func withoutKey(m domain.Metadata, key string) domain.Metadata {
	if _, ok := m[key]; !ok {
		return m
	}
	out := make(domain.Metadata, len(m)-1)
	for k, v := range m {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// single checks that exactly one block is tagged tag.
func single(test *domain.Test, tag string) error {
	switch n := len(test.Blocks[tag]); {
	case n == 0:
		return newError(domain.KindMissingContentBlock, fmt.Sprintf("missing %q block", tag))
	case n > 1:
		return newError(domain.KindInvalidCardinality, fmt.Sprintf("expected just one %q block, found %d", tag, n))
	}
	return nil
}

func newError(kind domain.ErrorKind, message string) error {
	return domain.NewKindError("classify", kind, message, nil)
}
