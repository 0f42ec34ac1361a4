package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"waypoint/internal/config"
	"waypoint/internal/testsupport"
)

// writeTestConfig serializes a minimal TOML config pointing at the given
// config's directories and returns its path.
func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	lines := []string{
		"[paths]",
		fmt.Sprintf("data_dir = %q", cfg.Paths.DataDir),
		fmt.Sprintf("venv_dir = %q", cfg.Paths.VenvDir),
		fmt.Sprintf("log_dir = %q", cfg.Paths.LogDir),
	}
	if cfg.Paths.Requirements != "" {
		lines = append(lines, fmt.Sprintf("requirements = %q", cfg.Paths.Requirements))
	}
	lines = append(lines,
		"",
		"[python]",
		fmt.Sprintf("binary = %q", cfg.PythonBinary()),
		fmt.Sprintf("script = %q", cfg.Python.Script),
		"",
		"[dispatch]",
		fmt.Sprintf("on_item_failure = %q", cfg.Dispatch.OnItemFailure),
	)

	path := filepath.Join(filepath.Dir(cfg.Paths.DataDir), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}

// runCLI executes the root command with args and returns combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func newCLIEnv(t *testing.T) (*config.Config, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	testsupport.StubPython(t, cfg)
	return cfg, writeTestConfig(t, cfg)
}
