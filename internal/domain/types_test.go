package domain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/mdconform/internal/domain"
)

var _ = Describe("Metadata", func() {
	It("should decode the known keys", func() {
		opts, unknown, err := domain.Metadata{
			"type":   "request",
			"mode":   "strict",
			"noScan": true,
		}.Options()
		Expect(err).ToNot(HaveOccurred())
		Expect(unknown).To(BeEmpty())
		Expect(opts).To(Equal(domain.Options{
			Type: "request", Mode: "strict", NoScan: true,
			HasType: true, HasMode: true,
		}))
	})

	It("should treat a nil record as empty", func() {
		var m domain.Metadata
		opts, unknown, err := m.Options()
		Expect(err).ToNot(HaveOccurred())
		Expect(unknown).To(BeEmpty())
		Expect(opts.HasType).To(BeFalse())
		Expect(opts.HasMode).To(BeFalse())
		Expect(opts.NoScan).To(BeFalse())
	})

	It("should return unknown keys separately", func() {
		_, unknown, err := domain.Metadata{"type": "request", "note": 3}.Options()
		Expect(err).ToNot(HaveOccurred())
		Expect(unknown).To(ConsistOf("note"))
	})

	DescribeTable("should reject values of the wrong type",
		func(m domain.Metadata) {
			_, _, err := m.Options()
			Expect(domain.IsKind(err, domain.KindInvalidMetadataValue)).To(BeTrue())
		},
		Entry("numeric type", domain.Metadata{"type": 1}),
		Entry("boolean mode", domain.Metadata{"mode": true}),
		Entry("string noScan", domain.Metadata{"noScan": "yes"}),
	)
})

var _ = Describe("ClassifiedRun", func() {
	It("should be named after its variant and scenario", func() {
		run := domain.ClassifiedRun{Variant: domain.VariantLoose, Scenario: domain.ScenarioResponseFinish}
		Expect(run.Name()).To(Equal("loose, response-finish"))
	})
})
