package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePython()
	c.normalizeDispatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"data_dir", &c.Paths.DataDir},
		{"venv_dir", &c.Paths.VenvDir},
		{"requirements", &c.Paths.Requirements},
		{"log_dir", &c.Paths.LogDir},
	}
	for _, field := range fields {
		trimmed := strings.TrimSpace(*field.value)
		if trimmed == "" {
			*field.value = ""
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("normalize %s: %w", field.name, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizePython() {
	c.Python.Binary = strings.TrimSpace(c.Python.Binary)
	if c.Python.Binary == "" {
		c.Python.Binary = defaultPythonBinary
	}
	c.Python.Script = strings.TrimSpace(c.Python.Script)
	if c.Python.Script == "" {
		c.Python.Script = defaultProcessorScript
	}
	args := c.Python.PipArgs[:0]
	for _, arg := range c.Python.PipArgs {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			args = append(args, trimmed)
		}
	}
	c.Python.PipArgs = args
}

func (c *Config) normalizeDispatch() {
	policy := strings.ToLower(strings.TrimSpace(c.Dispatch.OnItemFailure))
	if policy == "" {
		policy = PolicyContinue
	}
	c.Dispatch.OnItemFailure = policy
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
