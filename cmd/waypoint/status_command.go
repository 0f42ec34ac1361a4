package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"waypoint/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show preflight status: interpreter, data directory, venv, and manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cfg)
			out := cmd.OutOrStdout()

			if jsonOutput {
				type jsonCheck struct {
					Name     string `json:"name"`
					Passed   bool   `json:"passed"`
					Optional bool   `json:"optional"`
					Detail   string `json:"detail"`
				}
				checks := make([]jsonCheck, 0, len(results))
				for _, result := range results {
					checks = append(checks, jsonCheck(result))
				}
				return json.NewEncoder(out).Encode(map[string]any{
					"checks": checks,
					"ready":  len(preflight.Blocking(results)) == 0,
				})
			}

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				state := "ok"
				switch {
				case !result.Passed && result.Optional:
					state = "pending"
				case !result.Passed:
					state = "missing"
				}
				rows = append(rows, []string{result.Name, titleLabel(state), result.Detail})
			}

			if stdoutIsTerminal() {
				fmt.Fprintln(out, renderTable([]string{"Check", "State", "Detail"}, rows))
			} else {
				fmt.Fprint(out, renderPlainRows(rows))
			}

			if blocking := preflight.Blocking(results); len(blocking) > 0 {
				fmt.Fprintf(out, "Not ready: %d blocking check(s) failed\n", len(blocking))
			} else {
				fmt.Fprintln(out, "Ready to run")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}
