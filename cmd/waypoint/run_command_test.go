package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"waypoint/internal/testsupport"
)

func TestRunDryRunListsEntries(t *testing.T) {
	cfg, configPath := newCLIEnv(t)
	testsupport.SeedDataDir(t, cfg, "a.txt", "b.txt")

	out, err := runCLI(t, "--config", configPath, "run", "--dry-run")
	if err != nil {
		t.Fatalf("run --dry-run: %v\n%s", err, out)
	}
	requireContains(t, out, "Would dispatch 2 entries")
	requireContains(t, out, "a.txt")
	requireContains(t, out, "b.txt")
}

func TestRunDryRunJSON(t *testing.T) {
	cfg, configPath := newCLIEnv(t)
	testsupport.SeedDataDir(t, cfg, "a.txt")

	out, err := runCLI(t, "--config", configPath, "run", "--dry-run", "--json")
	if err != nil {
		t.Fatalf("run --dry-run --json: %v\n%s", err, out)
	}
	var payload struct {
		DataDir string   `json:"data_dir"`
		Entries []string `json:"entries"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(payload.Entries) != 1 || payload.Entries[0] != "a.txt" {
		t.Fatalf("unexpected entries: %v", payload.Entries)
	}
}

func TestRunFullPipelineJSON(t *testing.T) {
	cfg, configPath := newCLIEnv(t)
	testsupport.SeedDataDir(t, cfg, "2025-09-21--22-41-13")

	out, err := runCLI(t, "--config", configPath, "run", "--json")
	if err != nil {
		t.Fatalf("run --json: %v\n%s", err, out)
	}
	var payload struct {
		RunID       string `json:"run_id"`
		VenvCreated bool   `json:"venv_created"`
		Processed   int    `json:"processed"`
		Failed      int    `json:"failed"`
		Results     []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if !payload.VenvCreated {
		t.Fatal("expected venv to be created")
	}
	if payload.Processed != 1 || payload.Failed != 0 {
		t.Fatalf("unexpected counts: %+v", payload)
	}
	if payload.Results[0].Name != "2025-09-21--22-41-13" || payload.Results[0].Status != "ok" {
		t.Fatalf("unexpected result: %+v", payload.Results[0])
	}
}

func TestRunRejectsUnknownPolicyFlag(t *testing.T) {
	cfg, configPath := newCLIEnv(t)
	testsupport.SeedDataDir(t, cfg, "a.txt")

	out, err := runCLI(t, "--config", configPath, "run", "--on-failure", "retry")
	if err == nil {
		t.Fatalf("expected policy validation error, got output:\n%s", out)
	}
	if !strings.Contains(err.Error(), "on_item_failure") {
		t.Fatalf("error should mention the policy key: %v", err)
	}
}

func TestRunBootstrapFailureOmitsOutcome(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)
	testsupport.SeedDataDir(t, cfg, "a.txt")

	// Interpreter that fails venv creation.
	binDir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir stub bin: %v", err)
	}
	stub := filepath.Join(binDir, cfg.PythonBinary())
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'venv creation failed' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	out, err := runCLI(t, "--config", configPath, "run")
	if err == nil {
		t.Fatalf("expected bootstrap failure, got output:\n%s", out)
	}
	if strings.Contains(out, "Nothing dispatched.") {
		t.Fatalf("failed run must not render an empty outcome:\n%s", out)
	}
}

func TestRunHaltPolicyExitsNonZero(t *testing.T) {
	cfg, configPath := newCLIEnv(t)
	testsupport.SeedDataDir(t, cfg, "bad")

	// Pre-create the venv with a failing processor interpreter.
	testsupport.StubVenvScript(t, cfg, "echo 'KeyError' >&2; exit 1")

	_, err := runCLI(t, "--config", configPath, "run", "--on-failure", "halt")
	if err == nil {
		t.Fatal("expected halt policy to surface the entry failure")
	}
}
