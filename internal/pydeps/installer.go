package pydeps

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"waypoint/internal/services"
	"waypoint/internal/venv"
)

var commandContext = exec.CommandContext

// Installer drives pip inside a virtual environment.
type Installer struct {
	env       *venv.Environment
	extraArgs []string
}

// Option configures an Installer.
type Option func(*Installer)

// WithExtraArgs appends arguments to every pip install invocation.
func WithExtraArgs(args ...string) Option {
	return func(i *Installer) {
		i.extraArgs = append(i.extraArgs, args...)
	}
}

// NewInstaller constructs an Installer for the given environment.
func NewInstaller(env *venv.Environment, opts ...Option) *Installer {
	installer := &Installer{env: env}
	for _, opt := range opts {
		opt(installer)
	}
	return installer
}

// Install runs pip against the manifest when it exists. The bool reports
// whether an installation was performed; (false, nil) means the manifest was
// absent and pip was never invoked.
func (i *Installer) Install(ctx context.Context, manifestPath string) (bool, error) {
	manifestPath = strings.TrimSpace(manifestPath)
	if manifestPath == "" {
		return false, services.Wrap(services.ErrConfiguration, "install", "", "requirements manifest path not configured", nil)
	}

	info, err := os.Stat(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, services.Wrap(services.ErrConfiguration, "install", "stat manifest", manifestPath, err)
	}
	if info.IsDir() {
		return false, services.Wrap(services.ErrConfiguration, "install", "", fmt.Sprintf("manifest %s is a directory", manifestPath), nil)
	}

	args := append([]string{"install", "-r", manifestPath}, i.extraArgs...)
	cmd := commandContext(ctx, i.env.Pip(), args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			err = fmt.Errorf("%w: %s", err, detail)
		}
		return false, services.Wrap(services.ErrExternalTool, "install", "pip install", manifestPath, err)
	}
	return true, nil
}
