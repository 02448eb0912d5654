package orchestrator_test

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/frherrer/mdconform/internal/classifier"
	"github.com/frherrer/mdconform/internal/domain"
	"github.com/frherrer/mdconform/internal/fixture"
	"github.com/frherrer/mdconform/internal/matcher"
	"github.com/frherrer/mdconform/internal/normalize"
	"github.com/frherrer/mdconform/internal/orchestrator"
)

var specTags = classifier.Tags{Input: "http", URL: "url", Expected: "log"}

type checkCall struct {
	key    fixture.Key
	input  string
	expect []string
	opts   fixture.CheckOptions
}

// fakeEngine emits canned output per normalized input and records every
// check it serves.
type fakeEngine struct {
	mu      sync.Mutex
	outputs map[string][]string
	broken  map[fixture.Key]bool
	builds  map[fixture.Key]int
	calls   []checkCall
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		outputs: make(map[string][]string),
		broken:  make(map[fixture.Key]bool),
		builds:  make(map[fixture.Key]int),
	}
}

func (e *fakeEngine) Build(_ context.Context, key fixture.Key) (fixture.Fixture, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.builds[key]++
	if e.broken[key] {
		return nil, errors.New("grammar failed to compile")
	}
	return &fakeFixture{engine: e, key: key}, nil
}

func (e *fakeEngine) recorded() []checkCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]checkCall(nil), e.calls...)
}

type fakeFixture struct {
	engine *fakeEngine
	key    fixture.Key
}

func (f *fakeFixture) Check(_ context.Context, input []byte, expected []matcher.Matcher, opts fixture.CheckOptions) error {
	f.engine.mu.Lock()
	want := make([]string, len(expected))
	for i, m := range expected {
		want[i] = m.String()
	}
	f.engine.calls = append(f.engine.calls, checkCall{key: f.key, input: string(input), expect: want, opts: opts})
	out := f.engine.outputs[string(input)]
	f.engine.mu.Unlock()
	return matcher.Compare(expected, out)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sumEvaluator() normalize.Evaluator {
	return normalize.EvaluatorFunc(func(expr string) (string, error) {
		if expr == "1+1" {
			return "2", nil
		}
		return "", errors.New("unsupported")
	})
}

func newLoader(engine *fakeEngine, variants ...domain.Variant) (*orchestrator.Loader, *fixture.Cache) {
	log := quietLogger()
	cache := fixture.NewCache(engine, log)
	return orchestrator.NewLoader(specTags, normalize.New(sumEvaluator()), cache, variants, log), cache
}

// simpleGET is the one-group, one-test document used across specs.
func simpleGET() *domain.Document {
	return &domain.Document{
		Path: "basic.md",
		Groups: []*domain.Group{{
			Name: "Basic",
			Line: 1,
			Tests: []*domain.Test{{
				Name: "simple GET",
				Line: 3,
				Blocks: map[string][]string{
					"http": {"GET / HTTP/1.1\n\n\n"},
					"log":  {"url\nfinish\n"},
				},
				Annotations: map[string][]domain.Metadata{
					"http": {{"type": "request"}},
				},
			}},
		}},
	}
}
