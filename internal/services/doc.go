// Package services defines shared utilities consumed by the recommendation,
// enrichment, and artifact layers.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so the CLI and HTTP
//     surfaces can classify failures (bad input, missing artifacts, upstream
//     outages) without string matching.
package services
