package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	VenvDir      string `toml:"venv_dir"`
	Requirements string `toml:"requirements"`
	LogDir       string `toml:"log_dir"`
}

// Python contains configuration for the interpreter and the processor script.
type Python struct {
	Binary string `toml:"binary"`
	Script string `toml:"script"`
	// PipArgs are appended to every pip install invocation.
	PipArgs []string `toml:"pip_args"`
	// InvokeTimeout bounds a single processor invocation in seconds. Zero
	// disables the timeout; a hung invocation then blocks the batch.
	InvokeTimeout int `toml:"invoke_timeout"`
}

// Dispatch contains configuration for the per-entry dispatch loop.
type Dispatch struct {
	// OnItemFailure selects the policy when a processor invocation fails:
	// "continue" keeps going (best-effort batch), "halt" stops at the first
	// failure.
	OnItemFailure string `toml:"on_item_failure"`
	SkipHidden    bool   `toml:"skip_hidden"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Waypoint.
//
// Configuration sections:
//   - Paths: data directory, venv location, requirements manifest, log dir
//   - Python: interpreter, processor script, pip behavior, invoke timeout
//   - Dispatch: per-entry failure policy and entry filtering
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Python   Python   `toml:"python"`
	Dispatch Dispatch `toml:"dispatch"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/waypoint/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. The bool reports whether a file
// was found; defaults are used when it was not.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("waypoint.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories Waypoint writes to. The data
// directory is deliberately excluded: it is an input owned by the user, and a
// missing one should surface as a dispatch error rather than be silently
// created empty.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// ManifestPath returns the requirements manifest location, defaulting to
// requirements.txt inside the venv directory when unset.
func (c *Config) ManifestPath() string {
	if strings.TrimSpace(c.Paths.Requirements) != "" {
		return c.Paths.Requirements
	}
	return filepath.Join(c.Paths.VenvDir, "requirements.txt")
}

// PythonBinary returns the system interpreter used to create the venv.
func (c *Config) PythonBinary() string {
	if strings.TrimSpace(c.Python.Binary) != "" {
		return c.Python.Binary
	}
	return defaultPythonBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
