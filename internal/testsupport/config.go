// Package testsupport provides helpers for constructing configs and stub
// executables in tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"waypoint/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The data directory exists and is empty; the venv directory does not exist.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.VenvDir = filepath.Join(base, "MAP")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.Requirements = ""

	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithPolicy overrides the dispatch failure policy on the test config.
func WithPolicy(policy string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Dispatch.OnItemFailure = policy
	}
}

// SeedDataDir creates empty files for the given entry names inside the data
// directory.
func SeedDataDir(t testing.TB, cfg *config.Config, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(cfg.Paths.DataDir, name)
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("seed data entry %s: %v", name, err)
		}
	}
}

// WriteManifest writes a requirements manifest next to the venv directory and
// points the config at it.
func WriteManifest(t testing.TB, cfg *config.Config, contents string) string {
	t.Helper()
	path := filepath.Join(filepath.Dir(cfg.Paths.VenvDir), "requirements.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	cfg.Paths.Requirements = path
	return path
}
