// Package services defines shared utilities consumed by the run pipeline and
// the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, step names, and entry names for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (external tool, configuration, validation) consistently across steps.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform.
package services
