package domain_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/mdconform/internal/domain"
)

var _ = Describe("Error", func() {
	It("should format every populated field", func() {
		err := &domain.Error{
			Phase:      "load",
			Kind:       domain.KindInvalidPattern,
			File:       "basic.md",
			LineNumber: 12,
			Path:       []string{"Basic", "simple"},
			Message:    "bad pattern",
			Suggestion: "escape the slash",
			Cause:      errors.New("missing )"),
		}
		Expect(err.Error()).To(Equal(
			"[load] InvalidPattern basic.md:12 (Basic / simple): bad pattern: missing ) (hint: escape the slash)"))
	})

	It("should omit empty fields", func() {
		err := domain.NewError("config", "", 0, "no tags", nil)
		Expect(err.Error()).To(Equal("[config]: no tags"))
	})

	It("should unwrap to its cause", func() {
		cause := errors.New("boom")
		err := domain.NewKindError("build", domain.KindBuildFailure, "failed", cause)
		Expect(errors.Is(err, cause)).To(BeTrue())
	})

	Describe("IsKind", func() {
		It("should find the kind through wrapping", func() {
			err := fmt.Errorf("outer: %w", domain.NewKindError("check", domain.KindAssertionMismatch, "diff", nil))
			Expect(domain.IsKind(err, domain.KindAssertionMismatch)).To(BeTrue())
			Expect(domain.IsKind(err, domain.KindBuildFailure)).To(BeFalse())
		})

		It("should report no kind for foreign errors", func() {
			Expect(domain.KindOf(errors.New("plain"))).To(BeEmpty())
			Expect(domain.KindOf(nil)).To(BeEmpty())
		})
	})

	Describe("WithLocation", func() {
		It("should fill the location without touching the original", func() {
			orig := domain.NewKindError("classify", domain.KindMissingMetadata, "missing", nil)
			located := domain.WithLocation(orig, "load", "a.md", 3, []string{"G", "T"})

			Expect(located.File).To(Equal("a.md"))
			Expect(located.LineNumber).To(Equal(3))
			Expect(located.Path).To(Equal([]string{"G", "T"}))
			Expect(located.Phase).To(Equal("classify"))
			Expect(located.Kind).To(Equal(domain.KindMissingMetadata))
			Expect(orig.File).To(BeEmpty())
			Expect(orig.Path).To(BeNil())
		})

		It("should keep a location that is already set", func() {
			orig := domain.NewError("parse", "b.md", 7, "bad", nil)
			located := domain.WithLocation(orig, "load", "a.md", 3, nil)
			Expect(located.File).To(Equal("b.md"))
			Expect(located.LineNumber).To(Equal(7))
		})

		It("should wrap foreign errors under the given phase", func() {
			cause := errors.New("exit status 2")
			located := domain.WithLocation(cause, "check", "a.md", 3, []string{"G"})
			Expect(located.Phase).To(Equal("check"))
			Expect(located.Kind).To(BeEmpty())
			Expect(errors.Is(located, cause)).To(BeTrue())
		})
	})
})
