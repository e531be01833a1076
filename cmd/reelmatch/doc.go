// Package main hosts the reelmatch CLI entrypoint and command graph.
//
// The Cobra command tree loads the configured catalog and similarity
// artifacts, then either answers one recommendation query in the terminal,
// lists catalog titles, serves the HTML page and JSON API, or maintains the
// artifacts themselves. Configuration resolution and logger setup happen once
// in commandContext so subcommands stay small.
//
// Keep this package lean: behaviour belongs in internal packages and is only
// surfaced here through commands and flags.
package main
