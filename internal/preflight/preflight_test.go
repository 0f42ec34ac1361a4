package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"waypoint/internal/testsupport"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	results := CheckBinaries([]Requirement{
		{Name: "Shell", Command: "sh"},
		{Name: "Ghost", Command: "definitely-not-a-binary-7b3f"},
		{Name: "Unset", Command: ""},
	})

	if !results[0].Passed {
		t.Fatalf("sh should be available: %+v", results[0])
	}
	if results[1].Passed {
		t.Fatalf("missing binary should fail: %+v", results[1])
	}
	if results[2].Passed || results[2].Detail != "command not configured" {
		t.Fatalf("unconfigured command should fail with detail: %+v", results[2])
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if result := CheckDirectoryAccess("Data directory", dir); !result.Passed {
		t.Fatalf("readable directory should pass: %+v", result)
	}
	if result := CheckDirectoryAccess("Data directory", filepath.Join(dir, "missing")); result.Passed {
		t.Fatalf("missing directory should fail: %+v", result)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if result := CheckDirectoryAccess("Data directory", file); result.Passed {
		t.Fatalf("plain file should fail: %+v", result)
	}
}

func TestRunAllTreatsAbsentVenvAsInformational(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.StubPython(t, cfg)

	results := RunAll(cfg)
	byName := map[string]Result{}
	for _, result := range results {
		byName[result.Name] = result
	}

	if !byName["Python"].Passed {
		t.Fatalf("stubbed python should pass: %+v", byName["Python"])
	}
	if !byName["Data directory"].Passed {
		t.Fatalf("data directory should pass: %+v", byName["Data directory"])
	}
	envResult := byName["Virtual environment"]
	if envResult.Passed || !envResult.Optional {
		t.Fatalf("absent venv should be optional-informational: %+v", envResult)
	}
	if !strings.Contains(envResult.Detail, "created on first run") {
		t.Fatalf("unexpected venv detail: %q", envResult.Detail)
	}
	if blocking := Blocking(results); len(blocking) != 0 {
		t.Fatalf("no blocking failures expected: %+v", blocking)
	}
}

func TestBlockingFlagsMissingPython(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Python.Binary = "definitely-not-a-binary-7b3f"

	blocking := Blocking(RunAll(cfg))
	if len(blocking) != 1 || blocking[0].Name != "Python" {
		t.Fatalf("expected python to block the run: %+v", blocking)
	}
}
