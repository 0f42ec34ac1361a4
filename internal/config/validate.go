package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for values that would make a run
// impossible or ambiguous.
func (c *Config) Validate() error {
	var problems []error

	if c.Paths.DataDir == "" {
		problems = append(problems, errors.New("paths.data_dir must be set"))
	}
	if c.Paths.VenvDir == "" {
		problems = append(problems, errors.New("paths.venv_dir must be set"))
	}
	if c.Python.InvokeTimeout < 0 {
		problems = append(problems, fmt.Errorf("python.invoke_timeout must not be negative, got %d", c.Python.InvokeTimeout))
	}
	switch c.Dispatch.OnItemFailure {
	case PolicyContinue, PolicyHalt:
	default:
		problems = append(problems, fmt.Errorf("dispatch.on_item_failure must be %q or %q, got %q", PolicyContinue, PolicyHalt, c.Dispatch.OnItemFailure))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(problems...))
	}
	return nil
}
