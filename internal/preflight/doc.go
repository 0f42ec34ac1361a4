// Package preflight verifies that a Waypoint run can plausibly succeed before
// any step executes: the system interpreter is on PATH, the data directory is
// readable, and the venv and manifest state is reported for the status view.
package preflight
