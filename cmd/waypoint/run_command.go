package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"waypoint/internal/config"
	"waypoint/internal/dispatch"
	"waypoint/internal/runner"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dataDirFlag string
	var onFailureFlag string
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bootstrap the environment and process every data directory entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(dataDirFlag) != "" {
				expanded, err := config.ExpandPath(dataDirFlag)
				if err != nil {
					return err
				}
				cfg.Paths.DataDir = expanded
			}
			if strings.TrimSpace(onFailureFlag) != "" {
				cfg.Dispatch.OnItemFailure = strings.ToLower(strings.TrimSpace(onFailureFlag))
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			if dryRun {
				return runDryRun(cmd, cfg.Paths.DataDir, cfg.Dispatch.SkipHidden, jsonOutput)
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			outcome, runErr := runner.New(cfg, logger).Run(cmd.Context())
			// A failure before any dispatch has no outcome worth rendering;
			// the error itself is the report.
			if runErr == nil || len(outcome.Report.Results) > 0 {
				if printErr := printOutcome(cmd, outcome, jsonOutput); printErr != nil {
					return printErr
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&dataDirFlag, "data-dir", "", "Override the configured data directory")
	cmd.Flags().StringVar(&onFailureFlag, "on-failure", "", "Per-entry failure policy: continue or halt")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the entries that would be dispatched without running the processor")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")

	return cmd
}

func runDryRun(cmd *cobra.Command, dataDir string, skipHidden, jsonOutput bool) error {
	names, err := dispatch.ListEntries(dataDir, skipHidden)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return json.NewEncoder(out).Encode(map[string]any{
			"data_dir": dataDir,
			"entries":  names,
		})
	}

	if len(names) == 0 {
		fmt.Fprintf(out, "No entries found in %s\n", dataDir)
		return nil
	}
	fmt.Fprintf(out, "Would dispatch %d entries from %s:\n", len(names), dataDir)
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", name)
	}
	return nil
}

type jsonResult struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

type jsonOutcome struct {
	RunID           string       `json:"run_id"`
	VenvCreated     bool         `json:"venv_created"`
	DepsInstalled   bool         `json:"deps_installed"`
	ManifestMissing bool         `json:"manifest_missing"`
	Halted          bool         `json:"halted"`
	Processed       int          `json:"processed"`
	Failed          int          `json:"failed"`
	Skipped         int          `json:"skipped"`
	Results         []jsonResult `json:"results"`
}

func printOutcome(cmd *cobra.Command, outcome runner.Outcome, jsonOutput bool) error {
	out := cmd.OutOrStdout()

	if jsonOutput {
		payload := jsonOutcome{
			RunID:           outcome.RunID,
			VenvCreated:     outcome.Created,
			DepsInstalled:   outcome.Installed,
			ManifestMissing: outcome.ManifestMissing,
			Halted:          outcome.Report.Halted,
			Processed:       outcome.Report.Processed(),
			Failed:          outcome.Report.Failed(),
			Skipped:         outcome.Report.Skipped,
			Results:         make([]jsonResult, 0, len(outcome.Report.Results)),
		}
		for _, result := range outcome.Report.Results {
			entry := jsonResult{
				Name:       result.Name,
				Status:     "ok",
				DurationMS: result.Duration.Milliseconds(),
			}
			if result.Err != nil {
				entry.Status = "failed"
				entry.Error = result.Err.Error()
			}
			payload.Results = append(payload.Results, entry)
		}
		return json.NewEncoder(out).Encode(payload)
	}

	if len(outcome.Report.Results) == 0 {
		fmt.Fprintln(out, "Nothing dispatched.")
		return nil
	}

	rows := make([][]string, 0, len(outcome.Report.Results))
	for _, result := range outcome.Report.Results {
		status := "ok"
		if result.Err != nil {
			status = "failed"
		}
		rows = append(rows, []string{
			result.Name,
			titleLabel(status),
			result.Duration.Round(time.Millisecond).String(),
		})
	}

	if stdoutIsTerminal() {
		fmt.Fprintln(out, renderTable([]string{"Entry", "Status", "Duration"}, rows))
	} else {
		fmt.Fprint(out, renderPlainRows(rows))
	}

	fmt.Fprintf(out, "Processed %d, failed %d, skipped %d\n",
		outcome.Report.Processed(), outcome.Report.Failed(), outcome.Report.Skipped)
	return nil
}
