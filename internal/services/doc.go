// Package services defines shared utilities consumed by the organizer, the
// metadata collaborators and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and the source file being
//     processed so log lines can be correlated.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (external tool, invalid data, configuration) uniform.
//
// Use these helpers when wiring new components so per-file failures surface
// with the same shape everywhere.
package services
