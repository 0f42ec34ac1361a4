package processor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"waypoint/internal/services"
)

var commandContext = exec.CommandContext

// Client defines the per-entry processing behaviour.
type Client interface {
	Process(ctx context.Context, name string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithPython overrides the interpreter used to run the script.
func WithPython(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.python = binary
		}
	}
}

// WithScript overrides the processor script path.
func WithScript(script string) Option {
	return func(c *CLI) {
		if script != "" {
			c.script = script
		}
	}
}

// WithEnv sets the environment for every invocation, typically a venv
// session's Environ.
func WithEnv(env []string) Option {
	return func(c *CLI) {
		c.env = env
	}
}

// WithWorkDir sets the working directory for invocations. The script resolves
// its data paths relative to this.
func WithWorkDir(dir string) Option {
	return func(c *CLI) {
		c.workDir = dir
	}
}

// WithTimeout bounds each invocation. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(c *CLI) {
		c.timeout = d
	}
}

// CLI invokes the processor script through a Python interpreter.
type CLI struct {
	python  string
	script  string
	env     []string
	workDir string
	timeout time.Duration
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{python: "python3", script: "map_creator.py"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Process runs the script with the entry name as its sole argument and waits
// for completion. Output is captured and folded into the error on failure.
func (c *CLI) Process(ctx context.Context, name string) error {
	if name == "" {
		return services.Wrap(services.ErrValidation, "dispatch", "", "entry name required", nil)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := commandContext(runCtx, c.python, c.script, name) //nolint:gosec
	if len(c.env) > 0 {
		cmd.Env = c.env
	}
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}

	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "dispatch", c.script, fmt.Sprintf("entry %s exceeded %s", name, c.timeout), runCtx.Err())
	}
	if detail := strings.TrimSpace(string(output)); detail != "" {
		err = fmt.Errorf("%w: %s", err, detail)
	}
	return services.Wrap(services.ErrExternalTool, "dispatch", c.script, name, err)
}

var _ Client = (*CLI)(nil)
