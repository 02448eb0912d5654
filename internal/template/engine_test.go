package template_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/mdconform/internal/domain"
	tmpl "github.com/frherrer/mdconform/internal/template"
)

var _ = Describe("Command", func() {
	data := tmpl.Data{
		Variant:  string(domain.VariantStrict),
		Scenario: string(domain.ScenarioRequestFinish),
		Name:     "strict-request-finish",
	}

	It("should render every argument", func() {
		cmd, err := tmpl.Compile("build", []string{"make", "VARIANT={{.Variant}}", "{{.Scenario | snake | toUpper}}"})
		Expect(err).ToNot(HaveOccurred())
		Expect(cmd.Len()).To(Equal(3))

		args, err := cmd.Render(data)
		Expect(err).ToNot(HaveOccurred())
		Expect(args).To(Equal([]string{"make", "VARIANT=strict", "REQUEST_FINISH"}))
	})

	It("should drop arguments that render empty", func() {
		cmd, err := tmpl.Compile("run", []string{"--mode={{.Variant}}", "{{if .NoScan}}--no-scan{{end}}"})
		Expect(err).ToNot(HaveOccurred())

		args, err := cmd.Render(data)
		Expect(err).ToNot(HaveOccurred())
		Expect(args).To(Equal([]string{"--mode=strict"}))

		withNoScan := data
		withNoScan.NoScan = true
		args, err = cmd.Render(withNoScan)
		Expect(err).ToNot(HaveOccurred())
		Expect(args).To(Equal([]string{"--mode=strict", "--no-scan"}))
	})

	It("should render a single value", func() {
		cmd, err := tmpl.Compile("binary", []string{"bin/{{.Name}}"})
		Expect(err).ToNot(HaveOccurred())
		Expect(cmd.RenderOne(data)).To(Equal("bin/strict-request-finish"))
	})

	It("should fail on unknown fields", func() {
		cmd, err := tmpl.Compile("binary", []string{"{{.Missing}}"})
		Expect(err).ToNot(HaveOccurred())
		_, err = cmd.Render(data)
		Expect(err).To(HaveOccurred())
	})

	It("should fail on malformed templates", func() {
		_, err := tmpl.Compile("binary", []string{"{{.Name"})
		Expect(err).To(HaveOccurred())
	})
})
