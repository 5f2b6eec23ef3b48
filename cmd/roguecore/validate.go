package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nathoo/roguecore/loader"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <content-dir>",
		Short: "Load a content pack and report problems",
		Long: `Load every .lua file in a content pack, compile it and check references.

Errors fail the command. Warnings are printed to stderr and do not.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], cmd)
		},
	}
	return cmd
}

func runValidate(dir string, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	warnLog := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))

	content, err := loader.Load(dir, loader.WithLogger(warnLog))
	if err != nil {
		var ve *loader.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintf(out, "✗ %s\n", dir)
			for _, e := range ve.Errors {
				fmt.Fprintf(out, "  - %s\n", e)
			}
			return fmt.Errorf("%d content error(s)", len(ve.Errors))
		}
		return err
	}

	fmt.Fprintf(out, "✓ %s: %d actions, %d presets, %d slots\n",
		dir, len(content.Actions), len(content.Presets), len(content.SlotCapacity))
	return nil
}
