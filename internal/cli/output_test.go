package cli

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/mdconform/internal/orchestrator"
)

var _ = Describe("printReport", func() {
	It("should print each result, the details of failures and a summary", func() {
		report := &orchestrator.Report{Results: []orchestrator.Result{
			{File: "a.md", Path: []string{"G", "T", "strict, none"}, Status: orchestrator.StatusPassed},
			{File: "a.md", Path: []string{"G", "T", "loose, none"}, Status: orchestrator.StatusFailed,
				Err: errors.New("first difference at line 1\n- url\n+ uri")},
		}}

		var buf bytes.Buffer
		printReport(&buf, report)
		Expect(buf.String()).To(Equal(
			"PASS  a.md: G / T / strict, none\n" +
				"FAIL  a.md: G / T / loose, none\n" +
				"      first difference at line 1\n" +
				"      - url\n" +
				"      + uri\n" +
				"\n1 passed, 1 failed, 0 errored\n"))
	})
})

var _ = Describe("printSuite", func() {
	It("should indent groups, tests and checks", func() {
		suite := &orchestrator.Suite{
			Path: "a.md",
			Groups: []*orchestrator.GroupNode{{
				Name: "G",
				Groups: []*orchestrator.GroupNode{{
					Name:  "Sub",
					Tests: []*orchestrator.TestNode{{Name: "broken", Err: errors.New("missing \"log\" block")}},
				}},
				Tests: []*orchestrator.TestNode{{
					Name:   "T",
					Checks: []*orchestrator.Check{{Name: "strict, url"}, {Name: "loose, url"}},
				}},
			}},
		}

		var buf bytes.Buffer
		printSuite(&buf, suite)
		Expect(buf.String()).To(Equal(
			"a.md\n" +
				"  G\n" +
				"    Sub\n" +
				"      broken\n" +
				"        (not loaded: missing \"log\" block)\n" +
				"    T\n" +
				"      strict, url\n" +
				"      loose, url\n"))
	})
})
