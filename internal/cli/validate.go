package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frherrer/mdconform/internal/orchestrator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and every spec document",
	Long: `Loads the configuration file, parses every spec document and reports
load-time problems (missing blocks, bad metadata, invalid patterns or
placeholders) without building or running any fixture.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := prepare(cmd, nil)
		if err != nil {
			return err
		}

		suites, genErr := generate(cfg)
		out := cmd.OutOrStdout()

		problems := 0
		checks := 0
		for _, s := range suites {
			s.Walk(func(t *orchestrator.TestNode) {
				checks += len(t.Checks)
				if t.Err != nil {
					problems++
					fmt.Fprintf(out, "%v\n", t.Err)
				}
			})
		}
		if genErr != nil {
			return genErr
		}
		if problems > 0 {
			return fmt.Errorf("%d test(s) failed to load", problems)
		}

		fmt.Fprintf(out, "Configuration %q and %d document(s) are valid (%d check(s)).\n", cfgFile, len(suites), checks)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
