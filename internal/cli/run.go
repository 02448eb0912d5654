package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frherrer/mdconform/internal/config"
	"github.com/frherrer/mdconform/internal/generator"
	"github.com/frherrer/mdconform/internal/orchestrator"
	"github.com/frherrer/mdconform/internal/scanner"
)

var (
	parallel int
	variants []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every spec document against the engine fixtures",
	Long: `Discovers and parses spec documents, builds one fixture per variant and
scenario type on first use, and checks every classified run. Exits non-zero
if any check fails or errors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := prepare(cmd, func(cfg *config.Config) {
			if cmd.Flags().Changed("parallel") {
				cfg.Run.Parallelism = parallel
			}
			if cmd.Flags().Changed("variant") {
				cfg.Run.Variants = variants
			}
		})
		if err != nil {
			return err
		}

		suites, genErr := generate(cfg)
		if suites == nil && genErr != nil {
			return genErr
		}

		log.Infof("Running with parallelism %d", cfg.Run.Parallelism)
		report := orchestrator.NewRunner(cfg.Run.Parallelism, log).Run(cmd.Context(), suites...)
		printReport(cmd.OutOrStdout(), report)

		if genErr != nil {
			return genErr
		}
		if !report.OK() {
			return fmt.Errorf("%d of %d check(s) did not pass", len(report.Results)-report.Counts()[orchestrator.StatusPassed], len(report.Results))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVarP(&parallel, "parallel", "p", 0, "maximum number of checks running at once (overrides run.parallelism)")
	runCmd.Flags().StringSliceVar(&variants, "variant", nil, "only run these variants: strict, loose (overrides run.variants)")
	rootCmd.AddCommand(runCmd)
}

// generate wires the pipeline for cfg and loads every suite.
func generate(cfg *config.Config) ([]*orchestrator.Suite, error) {
	loader, _, err := generator.NewLoader(cfg, log)
	if err != nil {
		return nil, err
	}
	recursive := true
	if cfg.Input.Recursive != nil {
		recursive = *cfg.Input.Recursive
	}
	gen := generator.NewGenerator(scanner.NewScanner(recursive), generator.NewRegistry(), loader, log)
	return gen.Generate(cfg)
}

var statusLabels = map[orchestrator.Status]string{
	orchestrator.StatusPassed:  "PASS",
	orchestrator.StatusFailed:  "FAIL",
	orchestrator.StatusErrored: "ERROR",
}

// printReport writes one line per result, details for the ones that did not
// pass, and a summary.
func printReport(w io.Writer, report *orchestrator.Report) {
	for _, r := range report.Results {
		fmt.Fprintf(w, "%-5s %s: %s\n", statusLabels[r.Status], r.File, r.Name())
		if r.Err != nil {
			for _, line := range strings.Split(strings.TrimRight(r.Err.Error(), "\n"), "\n") {
				fmt.Fprintf(w, "      %s\n", line)
			}
		}
	}
	counts := report.Counts()
	fmt.Fprintf(w, "\n%d passed, %d failed, %d errored\n",
		counts[orchestrator.StatusPassed], counts[orchestrator.StatusFailed], counts[orchestrator.StatusErrored])
}
