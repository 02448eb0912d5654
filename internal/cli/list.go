package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frherrer/mdconform/internal/orchestrator"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the checks every spec document produces",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := prepare(cmd, nil)
		if err != nil {
			return err
		}
		suites, genErr := generate(cfg)
		for _, s := range suites {
			printSuite(cmd.OutOrStdout(), s)
		}
		return genErr
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func printSuite(w io.Writer, s *orchestrator.Suite) {
	fmt.Fprintln(w, s.Path)
	for _, g := range s.Groups {
		printGroup(w, g, 1)
	}
}

func printGroup(w io.Writer, g *orchestrator.GroupNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s\n", indent, g.Name)
	for _, child := range g.Groups {
		printGroup(w, child, depth+1)
	}
	for _, t := range g.Tests {
		fmt.Fprintf(w, "%s  %s\n", indent, t.Name)
		if t.Err != nil {
			fmt.Fprintf(w, "%s    (not loaded: %v)\n", indent, t.Err)
			continue
		}
		for _, c := range t.Checks {
			fmt.Fprintf(w, "%s    %s\n", indent, c.Name)
		}
	}
}
