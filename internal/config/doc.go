// Package config loads, normalizes, and validates Waypoint configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI needs: the data directory to scan, the virtual environment location, the
// requirements manifest, the processor script, and the dispatch failure
// policy.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
