package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/frherrer/mdconform/internal/domain"
)

// Status is the outcome of one leaf.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusErrored Status = "errored"
)

// Result is the outcome of one check, or of a test that failed to load.
type Result struct {
	File     string
	Path     []string
	Status   Status
	Err      error
	Duration time.Duration
}

// Name joins the result's path for display.
func (r Result) Name() string {
	return strings.Join(r.Path, " / ")
}

// Report aggregates results in suite order.
type Report struct {
	Results []Result
}

// Counts returns how many results have each status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, res := range r.Results {
		counts[res.Status]++
	}
	return counts
}

// OK reports whether every result passed.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if res.Status != StatusPassed {
			return false
		}
	}
	return true
}

// Runner executes suites with bounded concurrency.
type Runner struct {
	parallelism int
	log         *logrus.Logger
}

// NewRunner creates a Runner running at most parallelism checks at once.
func NewRunner(parallelism int, log *logrus.Logger) *Runner {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Runner{parallelism: parallelism, log: log}
}

// Run executes every check of suites. Outcomes are independent: a failing
// or erroring check never cancels its siblings.
func (r *Runner) Run(ctx context.Context, suites ...*Suite) *Report {
	type job struct {
		index int
		check *Check
	}

	report := &Report{}
	var jobs []job
	for _, s := range suites {
		s.Walk(func(t *TestNode) {
			if t.Err != nil {
				report.Results = append(report.Results, Result{
					File:   s.Path,
					Path:   t.Path,
					Status: StatusErrored,
					Err:    t.Err,
				})
				return
			}
			for _, c := range t.Checks {
				jobs = append(jobs, job{index: len(report.Results), check: c})
				report.Results = append(report.Results, Result{File: s.Path, Path: c.Path})
			}
		})
	}

	var g errgroup.Group
	g.SetLimit(r.parallelism)
	for _, j := range jobs {
		g.Go(func() error {
			start := time.Now()
			err := j.check.Execute(ctx)
			res := &report.Results[j.index]
			res.Duration = time.Since(start)
			res.Err = err
			res.Status = statusOf(err)
			r.log.Debugf("%s: %s (%s)", res.Name(), res.Status, res.Duration)
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusPassed
	case domain.IsKind(err, domain.KindAssertionMismatch):
		return StatusFailed
	default:
		return StatusErrored
	}
}
