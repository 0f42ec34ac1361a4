package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"waypoint/internal/runner"
)

func newSetupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the virtual environment and install dependencies without dispatching",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if err := runner.New(cfg, logger).Setup(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Virtual environment ready at %s\n", cfg.Paths.VenvDir)
			return nil
		},
	}
}
