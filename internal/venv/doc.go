// Package venv manages the Python virtual environment Waypoint runs its
// processor inside.
//
// Environment wraps a venv directory: it can create the venv on first use and
// resolves the interpreter and pip paths inside it. Activate returns a Session
// whose Environ mirrors what `source bin/activate` would export; releasing the
// session is idempotent so callers can defer it on every exit path.
package venv
