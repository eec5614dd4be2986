// Package services defines shared utilities consumed by the workflow phases
// and the external-tool adapters.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, phases, stage slugs, and entry URLs
//     for logging.
//   - Structured error markers plus the Wrap helper, and FailureStatus which
//     maps a failure to the record status the download state machine persists
//     (or to no change at all for local and transient problems).
package services
