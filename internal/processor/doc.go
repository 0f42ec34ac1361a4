// Package processor wraps the external per-entry processing command.
//
// The processor (map_creator.py by default) is opaque to Waypoint: it accepts
// a single data directory entry name, performs its own side effects, and
// returns an exit code. Waypoint never inspects its output beyond capturing it
// for diagnostics.
package processor
