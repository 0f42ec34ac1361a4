package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"waypoint/internal/config"
)

// pythonStub mimics `python3 -m venv <dir>` closely enough for pipeline tests:
// it populates the venv bin directory with python and pip stubs that exit 0.
const pythonStub = `#!/bin/sh
if [ "$1" = "-m" ] && [ "$2" = "venv" ]; then
  mkdir -p "$3/bin"
  printf '#!/bin/sh\nexit 0\n' > "$3/bin/python"
  printf '#!/bin/sh\nexit 0\n' > "$3/bin/pip"
  chmod +x "$3/bin/python" "$3/bin/pip"
fi
exit 0
`

// StubPython installs a python3 stub on PATH that can "create" venvs. It
// returns the stub directory for callers that need additional stubs.
func StubPython(t testing.TB, cfg *config.Config) string {
	t.Helper()

	binDir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir stub bin dir: %v", err)
	}
	target := filepath.Join(binDir, cfg.PythonBinary())
	if err := os.WriteFile(target, []byte(pythonStub), 0o755); err != nil {
		t.Fatalf("write python stub: %v", err)
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
	return binDir
}

// StubVenvScript replaces the venv python stub with a script body, letting
// tests control per-entry processor behavior (record arguments, fail for
// specific entries, sleep).
func StubVenvScript(t testing.TB, cfg *config.Config, body string) {
	t.Helper()
	target := filepath.Join(cfg.Paths.VenvDir, "bin", "python")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir venv bin: %v", err)
	}
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write venv python stub: %v", err)
	}
}
