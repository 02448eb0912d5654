package domain

import "fmt"

// Document is one parsed literate specification file.
type Document struct {
	Path   string
	Groups []*Group
}

// Group is a named section of a spec document.
type Group struct {
	Name     string
	Line     int
	Children []*Group
	Tests    []*Test
}

// Test is one literate example: its content blocks and their annotations,
// keyed by block tag.
type Test struct {
	Name        string
	Line        int
	Blocks      map[string][]string
	Annotations map[string][]Metadata
}

// Metadata is the open key/value record attached to a content block.
type Metadata map[string]any

// Options is the typed view of the metadata keys the classifier consumes.
type Options struct {
	Type   string
	Mode   string
	NoScan bool

	HasType bool
	HasMode bool
}

const (
	MetaType   = "type"
	MetaMode   = "mode"
	MetaNoScan = "noScan"
)

// Options decodes the known keys of m. Unknown keys are returned separately
// so the caller can report them.
func (m Metadata) Options() (Options, []string, error) {
	var opts Options
	var unknown []string
	for key, raw := range m {
		switch key {
		case MetaType:
			s, ok := raw.(string)
			if !ok {
				return opts, nil, NewKindError("classify", KindInvalidMetadataValue,
					fmt.Sprintf("metadata %q must be a string, got %T", key, raw), nil)
			}
			opts.Type, opts.HasType = s, true
		case MetaMode:
			s, ok := raw.(string)
			if !ok {
				return opts, nil, NewKindError("classify", KindInvalidMetadataValue,
					fmt.Sprintf("metadata %q must be a string, got %T", key, raw), nil)
			}
			opts.Mode, opts.HasMode = s, true
		case MetaNoScan:
			b, ok := raw.(bool)
			if !ok {
				return opts, nil, NewKindError("classify", KindInvalidMetadataValue,
					fmt.Sprintf("metadata %q must be a boolean, got %T", key, raw), nil)
			}
			opts.NoScan = b
		default:
			unknown = append(unknown, key)
		}
	}
	return opts, unknown, nil
}

// Variant is an operating mode of the engine under test.
type Variant string

const (
	VariantStrict Variant = "strict"
	VariantLoose  Variant = "loose"
)

// AllVariants lists every variant in run order.
var AllVariants = []Variant{VariantStrict, VariantLoose}

// ScenarioType is the shape of a single exercise of the engine.
type ScenarioType string

const (
	ScenarioNone           ScenarioType = "none"
	ScenarioRequest        ScenarioType = "request"
	ScenarioResponse       ScenarioType = "response"
	ScenarioRequestFinish  ScenarioType = "request-finish"
	ScenarioResponseFinish ScenarioType = "response-finish"
	ScenarioURL            ScenarioType = "url"
)

// ClassifiedRun is one (Test, variant, scenario type) execution unit.
type ClassifiedRun struct {
	Test     *Test
	Variant  Variant
	Scenario ScenarioType
}

// Name labels the run inside its test, e.g. "strict, request".
func (r ClassifiedRun) Name() string {
	return fmt.Sprintf("%s, %s", r.Variant, r.Scenario)
}
