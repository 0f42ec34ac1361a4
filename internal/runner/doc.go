// Package runner orchestrates a Waypoint batch run: bootstrap the virtual
// environment, activate it for the duration of the run, install dependencies
// when a manifest is present, dispatch the processor over the data directory,
// and release the activation on every exit path.
//
// Bootstrap and install failures abort the run. Per-entry dispatch failures
// follow the configured policy. A file lock on the venv directory keeps
// concurrent runs from racing venv creation and pip.
package runner
