package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathoo/roguecore/scenario"
)

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "simulate <content-dir> <script.yaml>",
		Short: "Run a YAML scenario against a content pack",
		Long: `Run a scripted sequence of run operations and check the expectations
attached to each step. The command fails if any expectation does not hold.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(rootOpts, args[0], args[1], verbose, cmd)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print query results and events")
	return cmd
}

func runSimulate(opts *RootOptions, dir, scriptPath string, verbose bool, cmd *cobra.Command) error {
	sc, err := scenario.LoadFile(scriptPath)
	if err != nil {
		return err
	}

	eng, content, err := opts.open(dir)
	if err != nil {
		return err
	}
	defer eng.Close()

	rep, err := scenario.Run(eng, content, sc)
	if err != nil {
		return fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	out := cmd.OutOrStdout()
	if verbose {
		for _, q := range rep.Queries {
			fmt.Fprintf(out, "  step %d query: %s\n", q.Step, strings.Join(q.IDs, ", "))
		}
		fmt.Fprintf(out, "  events: %s\n", strings.Join(rep.Events, ", "))
	}

	if !rep.Pass {
		fmt.Fprintf(out, "FAIL %s (%d steps)\n", rep.Name, rep.Steps)
		for _, e := range rep.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
		return fmt.Errorf("scenario %q failed with %d error(s)", rep.Name, len(rep.Errors))
	}

	fmt.Fprintf(out, "PASS %s (%d steps)\n", rep.Name, rep.Steps)
	return nil
}
