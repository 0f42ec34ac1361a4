package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"waypoint/internal/config"
)

func TestLoadDefaultsWhenNoFilePresent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })
	if err := os.Chdir(tempHome); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if filepath.Base(cfg.Paths.DataDir) != "data" {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if filepath.Base(cfg.Paths.VenvDir) != "MAP" {
		t.Fatalf("unexpected venv dir: %q", cfg.Paths.VenvDir)
	}
	if cfg.PythonBinary() != "python3" {
		t.Fatalf("unexpected python binary: %q", cfg.PythonBinary())
	}
	if cfg.Python.Script != "map_creator.py" {
		t.Fatalf("unexpected processor script: %q", cfg.Python.Script)
	}
	if cfg.Dispatch.OnItemFailure != config.PolicyContinue {
		t.Fatalf("expected continue policy by default, got %q", cfg.Dispatch.OnItemFailure)
	}
	if want := filepath.Join(cfg.Paths.VenvDir, "requirements.txt"); cfg.ManifestPath() != want {
		t.Fatalf("unexpected manifest path: got %q want %q", cfg.ManifestPath(), want)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.LogDir); err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
}

func TestLoadReadsTOMLAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfgPath := filepath.Join(tempHome, "waypoint.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "~/recordings"`,
		`venv_dir = "~/venvs/map"`,
		`requirements = "~/venvs/map/requirements.txt"`,
		"",
		"[python]",
		`binary = "python3.12"`,
		`invoke_timeout = 90`,
		"",
		"[dispatch]",
		`on_item_failure = "HALT"`,
	}, "\n")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if resolved != cfgPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "recordings") {
		t.Fatalf("tilde not expanded: %q", cfg.Paths.DataDir)
	}
	if cfg.PythonBinary() != "python3.12" {
		t.Fatalf("unexpected python binary: %q", cfg.PythonBinary())
	}
	if cfg.Python.InvokeTimeout != 90 {
		t.Fatalf("unexpected invoke timeout: %d", cfg.Python.InvokeTimeout)
	}
	if cfg.Dispatch.OnItemFailure != config.PolicyHalt {
		t.Fatalf("expected halt policy (case-insensitive), got %q", cfg.Dispatch.OnItemFailure)
	}
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfgPath := filepath.Join(tempHome, "waypoint.toml")
	content := "[dispatch]\non_item_failure = \"retry\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(cfgPath)
	if err == nil {
		t.Fatal("expected validation error for unknown policy")
	}
	if !strings.Contains(err.Error(), "on_item_failure") {
		t.Fatalf("error should mention the offending key: %v", err)
	}
}

func TestLoadRejectsNegativeTimeout(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfgPath := filepath.Join(tempHome, "waypoint.toml")
	if err := os.WriteFile(cfgPath, []byte("[python]\ninvoke_timeout = -5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(cfgPath); err == nil {
		t.Fatal("expected validation error for negative timeout")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	samplePath := filepath.Join(tempHome, "nested", "config.toml")
	if err := config.CreateSample(samplePath); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(samplePath)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Dispatch.OnItemFailure != config.PolicyContinue {
		t.Fatalf("sample should match defaults, got policy %q", cfg.Dispatch.OnItemFailure)
	}
}
