package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathoo/roguecore/console"
	"github.com/nathoo/roguecore/engine/query"
	"github.com/nathoo/roguecore/types"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	Preset  string
	Pool    []string
	Mode    string
	Count   int
	Seed    int64
	Acquire []string
	Tags    []string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	qo := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <content-dir>",
		Short: "Start a run and print one weighted selection",
		Long: `Start a run, optionally acquire actions and set tags, then run a single
query and print the selected actions. A fixed --seed repeats the same picks.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("count") {
				qo.Count = rootOpts.Config.QueryCount
			}
			if !cmd.Flags().Changed("seed") && rootOpts.Config.Seed != 0 {
				qo.Seed = rootOpts.Config.Seed
			}
			return runQuery(rootOpts, qo, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&qo.Preset, "preset", "p", "", "pool preset ID")
	cmd.Flags().StringSliceVar(&qo.Pool, "pool", nil, "pool tags (empty means every action)")
	cmd.Flags().StringVar(&qo.Mode, "mode", "", "query mode (all|only_new|only_acquired|new_or_acquired|custom)")
	cmd.Flags().IntVarP(&qo.Count, "count", "n", query.DefaultCount, "number of results")
	cmd.Flags().Int64Var(&qo.Seed, "seed", 0, "selection seed (0 picks a random one)")
	cmd.Flags().StringSliceVar(&qo.Acquire, "acquire", nil, "actions to acquire before querying")
	cmd.Flags().StringSliceVar(&qo.Tags, "tag", nil, "run tags to set before querying")

	return cmd
}

func runQuery(opts *RootOptions, qo *QueryOptions, dir string, cmd *cobra.Command) error {
	if qo.Count <= 0 {
		return fmt.Errorf("count must be positive, got %d", qo.Count)
	}

	eng, content, err := opts.open(dir)
	if err != nil {
		return err
	}
	defer eng.Close()

	q := query.New()
	if qo.Preset != "" {
		p, ok := content.Presets[qo.Preset]
		if !ok {
			return fmt.Errorf("unknown preset %q", qo.Preset)
		}
		q.Preset = p
	}
	q.PoolTags = qo.Pool
	q.Count = qo.Count
	q.Seed = qo.Seed
	if qo.Mode != "" {
		q.Mode = types.QueryMode(qo.Mode)
	}

	eng.StartRun(qo.Seed)
	for _, tag := range qo.Tags {
		eng.AddTag(tag)
	}
	for _, id := range qo.Acquire {
		a, ok := eng.Resolve(id)
		if !ok {
			return fmt.Errorf("unknown action %q", id)
		}
		if err := eng.TryAcquire(a, 1); err != nil {
			return fmt.Errorf("acquire %s: %w", id, err)
		}
	}

	out := cmd.OutOrStdout()
	results := eng.ExecuteQuery(q)
	if len(results) == 0 {
		fmt.Fprintln(out, "No eligible actions.")
		return nil
	}
	for i, a := range results {
		fmt.Fprintf(out, "%d) %s [%s]\n", i+1, console.DisplayName(a), a.ID)
	}
	return nil
}
