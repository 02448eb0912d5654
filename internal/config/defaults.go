package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	return &Config{
		Input: InputConfig{
			Directories: []string{"test"},
			Include:     []string{"*.md"},
			Exclude:     []string{"vendor/**", "node_modules/**"},
			Recursive:   &recursive,
		},
		Tags: TagConfig{
			Input:    "http",
			URL:      "url",
			Expected: "log",
		},
		Fixtures: FixtureConfig{
			WorkDir:      ".",
			BuildCommand: []string{"make", "fixture", "VARIANT={{.Variant}}", "SCENARIO={{.Scenario}}"},
			Binary:       "build/fixtures/{{.Name}}",
			RunArgs:      []string{"{{if .NoScan}}--no-scan{{end}}"},
			Timeout:      "30s",
			BlockedPatterns: []string{
				"rm -rf /",
				"mkfs",
				"dd if=",
				"> /dev/sd",
			},
		},
		Run: RunConfig{
			Parallelism: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
