package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/roguecore/cli"
	"github.com/nathoo/roguecore/config"
	"github.com/nathoo/roguecore/console"
	"github.com/nathoo/roguecore/engine"
	"github.com/nathoo/roguecore/engine/catalog"
	"github.com/nathoo/roguecore/loader"
	"github.com/nathoo/roguecore/tui"
	"github.com/nathoo/roguecore/types"
)

// RootOptions holds global flags for all commands. Zero values fall back to
// the environment configuration.
type RootOptions struct {
	Config    config.Config
	Debug     bool
	LogFormat string

	logger *slog.Logger
}

// NewRootCommand creates the roguecore command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	var (
		plain      bool
		trace      bool
		scriptFile string
		saveDir    string
		seed       int64
	)

	cmd := &cobra.Command{
		Use:     "roguecore [content-dir]",
		Short:   "roguecore - roguelite run progression",
		Long:    "Play, validate and simulate roguelite runs defined by a Lua content pack.",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.Config.ContentDir
			if len(args) == 1 {
				dir = args[0]
			}
			if cmd.Flags().Changed("save-dir") {
				opts.Config.SaveDir = saveDir
			}
			if cmd.Flags().Changed("seed") {
				opts.Config.Seed = seed
			}

			eng, content, err := opts.open(dir)
			if err != nil {
				return err
			}
			defer eng.Close()

			s := console.New(eng, content)
			s.SaveDir = opts.Config.SaveDir
			s.QueryCount = opts.Config.QueryCount
			s.Trace = trace
			if opts.Config.Seed != 0 {
				eng.StartRun(opts.Config.Seed)
			}

			if scriptFile != "" {
				f, err := os.Open(scriptFile)
				if err != nil {
					return fmt.Errorf("opening script: %w", err)
				}
				defer f.Close()
				c := cli.New(s)
				c.In = f
				c.Out = cmd.OutOrStdout()
				c.EchoInput = true
				c.Run()
				return nil
			}

			if plain || !isTerminal() {
				c := cli.New(s)
				c.Out = cmd.OutOrStdout()
				c.Run()
				return nil
			}
			return tui.Run(s)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json)")

	cmd.Flags().BoolVar(&plain, "plain", false, "use the line-based interface instead of the TUI")
	cmd.Flags().BoolVar(&trace, "trace", false, "print events after each command")
	cmd.Flags().StringVar(&scriptFile, "script", "", "play commands from a file")
	cmd.Flags().StringVar(&saveDir, "save-dir", "", "directory for /save and /load")
	cmd.Flags().Int64Var(&seed, "seed", 0, "start a run immediately with this seed")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewSimulateCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))

	return cmd
}

// setup reads the environment configuration, applies global flags and builds
// the logger shared by subcommands.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.Debug {
		cfg.Debug = true
	}
	if o.LogFormat != "" {
		cfg.LogFormat = o.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.Config = cfg
	o.logger = cfg.Logger(cmd.ErrOrStderr())
	return nil
}

// open loads the content pack in dir and builds an engine over it.
func (o *RootOptions) open(dir string) (*engine.Engine, *types.Content, error) {
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	content, err := loader.Load(dir, loader.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("loading content: %w", err)
	}
	cat := catalog.New()
	cat.RegisterAll(content.Actions)
	return engine.New(cat, engine.WithLogger(logger)), content, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
