package orchestrator

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// RegisterSpecs declares suites as Ginkgo containers: one Describe per
// document, group and test, and one It per check named "<variant>, <scenario>".
// A test that failed to load gets a single failing It. Call it while Ginkgo
// builds its tree, e.g. from a package-level var.
func RegisterSpecs(suites ...*Suite) bool {
	for _, s := range suites {
		ginkgo.Describe(s.Path, func() {
			for _, g := range s.Groups {
				registerGroup(g)
			}
		})
	}
	return true
}

func registerGroup(g *GroupNode) {
	ginkgo.Describe(g.Name, func() {
		for _, child := range g.Groups {
			registerGroup(child)
		}
		for _, t := range g.Tests {
			registerTest(t)
		}
	})
}

func registerTest(t *TestNode) {
	ginkgo.Describe(t.Name, func() {
		if t.Err != nil {
			ginkgo.It("loads", func() {
				ginkgo.Fail(t.Err.Error())
			})
			return
		}
		for _, c := range t.Checks {
			ginkgo.It(c.Name, func(ctx ginkgo.SpecContext) {
				gomega.Expect(c.Execute(ctx)).To(gomega.Succeed())
			})
		}
	})
}
