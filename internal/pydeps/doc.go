// Package pydeps installs Python dependencies into the Waypoint virtual
// environment from an optional requirements manifest.
//
// A missing manifest is a soft condition: Install reports it without invoking
// pip so the caller can warn and continue. Installation relies on pip's own
// idempotence for already-satisfied requirements.
package pydeps
