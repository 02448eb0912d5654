package eval_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/mdconform/internal/eval"
)

var _ = Describe("Interpreter", func() {
	var e *eval.Interpreter

	BeforeEach(func() {
		var err error
		e, err = eval.New(eval.DefaultImports...)
		Expect(err).ToNot(HaveOccurred())
	})

	It("should evaluate arithmetic", func() {
		Expect(e.Evaluate("1+1")).To(Equal("2"))
	})

	It("should evaluate string expressions with imported packages", func() {
		Expect(e.Evaluate(`strings.Repeat("a", 3)`)).To(Equal("aaa"))
	})

	It("should return an error for invalid expressions", func() {
		_, err := e.Evaluate("1 +")
		Expect(err).To(HaveOccurred())
	})
})
