package orchestrator_test

import (
	"github.com/frherrer/mdconform/internal/domain"
	"github.com/frherrer/mdconform/internal/orchestrator"
)

// The simple GET document registered as real Ginkgo specs: four Its under
// basic.md / Basic / simple GET, all backed by the fake engine.
var _ = orchestrator.RegisterSpecs(func() *orchestrator.Suite {
	engine := newFakeEngine()
	engine.outputs["GET / HTTP/1.1\r\n\r\n"] = []string{"url", "finish"}
	loader, _ := newLoader(engine, domain.VariantStrict, domain.VariantLoose)
	return loader.Load(simpleGET())
}())
