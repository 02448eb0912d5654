package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/frherrer/mdconform/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Input    InputConfig   `yaml:"input"`
	Tags     TagConfig     `yaml:"tags"`
	Fixtures FixtureConfig `yaml:"fixtures"`
	Run      RunConfig     `yaml:"run"`
	Logging  LoggingConfig `yaml:"logging"`
}

type InputConfig struct {
	Directories []string `yaml:"directories"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Recursive   *bool    `yaml:"recursive"` // pointer to distinguish unset from false
}

// TagConfig names the fenced block tags the orchestrator reads.
type TagConfig struct {
	Input    string `yaml:"input"`
	URL      string `yaml:"url"`
	Expected string `yaml:"expected"`
}

// All returns every configured tag.
func (t TagConfig) All() []string {
	return []string{t.Input, t.URL, t.Expected}
}

// FixtureConfig drives the process-backed fixture builder. Every string is a
// text/template rendered with the fixture key (.Variant, .Scenario, .Name);
// RunArgs additionally see .NoScan.
type FixtureConfig struct {
	WorkDir         string   `yaml:"work_dir"`
	BuildCommand    []string `yaml:"build_command"`
	Binary          string   `yaml:"binary"`
	RunArgs         []string `yaml:"run_args"`
	Timeout         string   `yaml:"timeout"`
	BlockedPatterns []string `yaml:"blocked_patterns"`
}

type RunConfig struct {
	Parallelism int      `yaml:"parallelism"`
	Variants    []string `yaml:"variants"` // empty means every variant
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}
	if err := ValidateSchema(data); err != nil {
		return nil, domain.NewErrorWithSuggestion("config", path, 0,
			"config does not match the mdconform schema",
			"check section and key names against the documented configuration",
			err)
	}

	return cfg, nil
}
