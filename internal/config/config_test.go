package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/mdconform/internal/config"
)

var _ = Describe("Config", func() {
	Describe("Load", func() {
		It("should load minimal config over defaults", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "minimal.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Input.Directories).To(ConsistOf("test/request"))
			Expect(cfg.Tags.Input).To(Equal("http"))
			Expect(cfg.Tags.Expected).To(Equal("log"))
			Expect(cfg.Run.Parallelism).To(Equal(4))
		})

		It("should load full config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Input.Directories).To(HaveLen(3))
			Expect(cfg.Input.Include).To(ContainElement("*.markdown"))
			Expect(*cfg.Input.Recursive).To(BeFalse())
			Expect(cfg.Fixtures.RunArgs).To(HaveLen(2))
			Expect(cfg.Fixtures.Timeout).To(Equal("10s"))
			Expect(cfg.Run.Parallelism).To(Equal(8))
			Expect(cfg.Run.Variants).To(ConsistOf("strict"))
			Expect(cfg.Logging.Level).To(Equal("debug"))
		})

		It("should return error for nonexistent file", func() {
			_, err := config.Load("nonexistent.yaml")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid YAML", func() {
			tmpFile := filepath.Join(GinkgoT().TempDir(), "invalid_mdconform.yaml")
			err := os.WriteFile(tmpFile, []byte("{{invalid yaml}}"), 0644)
			Expect(err).ToNot(HaveOccurred())

			_, loadErr := config.Load(tmpFile)
			Expect(loadErr).To(HaveOccurred())
		})

		It("should reject unknown keys", func() {
			tmpFile := filepath.Join(GinkgoT().TempDir(), "typo.yaml")
			Expect(os.WriteFile(tmpFile, []byte("fixture:\n  binary: bin/x\n"), 0644)).To(Succeed())

			_, err := config.Load(tmpFile)
			Expect(err).To(MatchError(ContainSubstring("does not match the mdconform schema")))
		})

		It("should reject values of the wrong type", func() {
			tmpFile := filepath.Join(GinkgoT().TempDir(), "types.yaml")
			Expect(os.WriteFile(tmpFile, []byte("run:\n  parallelism: many\n"), 0644)).To(Succeed())

			_, err := config.Load(tmpFile)
			Expect(err).To(HaveOccurred())
		})

		It("should accept an empty file", func() {
			tmpFile := filepath.Join(GinkgoT().TempDir(), "empty.yaml")
			Expect(os.WriteFile(tmpFile, nil, 0644)).To(Succeed())

			cfg, err := config.Load(tmpFile)
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Tags.Input).To(Equal("http"))
		})
	})

	Describe("ValidateSchema", func() {
		It("should reject a variant outside strict and loose", func() {
			Expect(config.ValidateSchema([]byte("run:\n  variants: [fast]\n"))).ToNot(Succeed())
		})

		It("should accept the full example", func() {
			data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(config.ValidateSchema(data)).To(Succeed())
		})
	})

	Describe("DefaultConfig", func() {
		It("should return config with sensible defaults", func() {
			cfg := config.DefaultConfig()
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Input.Include).To(ContainElement("*.md"))
			Expect(*cfg.Input.Recursive).To(BeTrue())
			Expect(cfg.Tags.All()).To(Equal([]string{"http", "url", "log"}))
			Expect(cfg.Fixtures.Timeout).To(Equal("30s"))
			Expect(cfg.Logging.Level).To(Equal("info"))
			Expect(config.Validate(cfg)).To(Succeed())
		})
	})

	Describe("Validate", func() {
		It("should pass for valid config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(config.Validate(cfg)).To(Succeed())
		})

		It("should fail if directories are empty", func() {
			cfg := config.DefaultConfig()
			cfg.Input.Directories = nil
			err := config.Validate(cfg)
			Expect(err).To(MatchError(ContainSubstring("input.directories")))
		})

		It("should fail if two tags collide", func() {
			cfg := config.DefaultConfig()
			cfg.Tags.URL = "http"
			err := config.Validate(cfg)
			Expect(err).To(MatchError(ContainSubstring("tags.input and tags.url must differ")))
		})

		It("should fail for a malformed fixture template", func() {
			cfg := config.DefaultConfig()
			cfg.Fixtures.Binary = "bin/{{.Name"
			err := config.Validate(cfg)
			Expect(err).To(MatchError(ContainSubstring("fixtures template")))
		})

		It("should accept the fixture template helpers", func() {
			cfg := config.DefaultConfig()
			cfg.Fixtures.Binary = "build/{{.Name | snake}}"
			cfg.Fixtures.BuildCommand = []string{"make", "{{toUpper .Variant}}", `{{replace .Scenario "-" "_"}}`}
			Expect(config.Validate(cfg)).To(Succeed())
		})

		It("should fail for an undefined template function", func() {
			cfg := config.DefaultConfig()
			cfg.Fixtures.Binary = "build/{{.Name | kebab}}"
			err := config.Validate(cfg)
			Expect(err).To(MatchError(ContainSubstring(`function "kebab" not defined`)))
		})

		It("should fail for an unknown variant filter", func() {
			cfg := config.DefaultConfig()
			cfg.Run.Variants = []string{"lenient"}
			err := config.Validate(cfg)
			Expect(err).To(MatchError(ContainSubstring("run.variants")))
		})

		It("should fail for a bad timeout", func() {
			cfg := config.DefaultConfig()
			cfg.Fixtures.Timeout = "soon"
			err := config.Validate(cfg)
			Expect(err).To(MatchError(ContainSubstring("fixtures.timeout")))
		})

		It("should fail for invalid log level", func() {
			cfg := config.DefaultConfig()
			cfg.Logging.Level = "verbose"
			err := config.Validate(cfg)
			Expect(err).To(MatchError(ContainSubstring("logging.level")))
		})
	})
})
