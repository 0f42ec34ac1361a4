package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"waypoint/internal/config"
	"waypoint/internal/venv"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Requirement defines an external binary Waypoint relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// CheckBinaries evaluates the provided requirements against PATH.
func CheckBinaries(requirements []Requirement) []Result {
	results := make([]Result, 0, len(requirements))
	for _, req := range requirements {
		command := strings.TrimSpace(req.Command)
		result := Result{Name: req.Name, Optional: req.Optional}
		switch {
		case command == "":
			result.Detail = "command not configured"
		default:
			if _, err := exec.LookPath(command); err != nil {
				result.Detail = fmt.Sprintf("binary %q not found", command)
			} else {
				result.Passed = true
				result.Detail = command
			}
		}
		results = append(results, result)
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is readable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// RunAll executes every preflight check for the given config. Venv and
// manifest presence are informational: both are created or tolerated by the
// run itself, so they are marked optional rather than failing preflight.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := CheckBinaries([]Requirement{
		{
			Name:        "Python",
			Command:     cfg.PythonBinary(),
			Description: "Required to create the virtual environment",
		},
	})

	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))

	env := venv.New(cfg.Paths.VenvDir, venv.WithPython(cfg.PythonBinary()))
	if env.Exists() {
		results = append(results, Result{Name: "Virtual environment", Passed: true, Detail: cfg.Paths.VenvDir})
	} else {
		results = append(results, Result{
			Name:     "Virtual environment",
			Optional: true,
			Detail:   fmt.Sprintf("%s (will be created on first run)", cfg.Paths.VenvDir),
		})
	}

	manifest := cfg.ManifestPath()
	if info, err := os.Stat(manifest); err == nil && !info.IsDir() {
		results = append(results, Result{Name: "Requirements manifest", Passed: true, Detail: manifest})
	} else {
		results = append(results, Result{
			Name:     "Requirements manifest",
			Optional: true,
			Detail:   fmt.Sprintf("%s (absent; dependency installation will be skipped)", manifest),
		})
	}

	return results
}

// Blocking returns the subset of results that must pass before a run starts.
func Blocking(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed && !result.Optional {
			failed = append(failed, result)
		}
	}
	return failed
}
