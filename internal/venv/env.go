package venv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"waypoint/internal/services"
)

var commandContext = exec.CommandContext

// Environment wraps a Python virtual environment directory.
type Environment struct {
	root   string
	python string
}

// Option configures an Environment.
type Option func(*Environment)

// WithPython overrides the system interpreter used for venv creation.
func WithPython(binary string) Option {
	return func(e *Environment) {
		if binary != "" {
			e.python = binary
		}
	}
}

// New constructs an Environment rooted at dir.
func New(dir string, opts ...Option) *Environment {
	env := &Environment{root: dir, python: "python3"}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// Root returns the venv directory path.
func (e *Environment) Root() string { return e.root }

// Exists reports whether the venv directory is present. An existing directory
// is trusted as-is; its interior is not validated.
func (e *Environment) Exists() bool {
	info, err := os.Stat(e.root)
	return err == nil && info.IsDir()
}

// Create builds the virtual environment via `<python> -m venv <root>`.
// It does nothing when the directory already exists.
func (e *Environment) Create(ctx context.Context) error {
	if strings.TrimSpace(e.root) == "" {
		return services.Wrap(services.ErrConfiguration, "bootstrap", "create venv", "venv directory not configured", nil)
	}
	if e.Exists() {
		return nil
	}

	cmd := commandContext(ctx, e.python, "-m", "venv", e.root) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			err = fmt.Errorf("%w: %s", err, detail)
		}
		return services.Wrap(services.ErrExternalTool, "bootstrap", "create venv", e.root, err)
	}
	return nil
}

// binDir returns the executables directory inside the venv.
func (e *Environment) binDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.root, "Scripts")
	}
	return filepath.Join(e.root, "bin")
}

// Python returns the venv interpreter path.
func (e *Environment) Python() string {
	return filepath.Join(e.binDir(), pythonExecutable())
}

// Pip returns the venv pip path.
func (e *Environment) Pip() string {
	return filepath.Join(e.binDir(), pipExecutable())
}

// Activate returns a Session scoped to this environment. The venv must exist.
func (e *Environment) Activate() (*Session, error) {
	if !e.Exists() {
		return nil, services.Wrap(services.ErrNotFound, "activate", "", fmt.Sprintf("virtual environment %s does not exist", e.root), errors.New("run bootstrap first"))
	}
	return newSession(e), nil
}

func pythonExecutable() string {
	if runtime.GOOS == "windows" {
		return "python.exe"
	}
	return "python"
}

func pipExecutable() string {
	if runtime.GOOS == "windows" {
		return "pip.exe"
	}
	return "pip"
}
