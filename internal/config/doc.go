// Package config loads, normalizes, and validates reelmatch configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OMDB_API_KEY. The Config type centralizes every knob the CLI and HTTP server
// need: where the catalog and similarity artifacts live, how the OMDb client
// behaves, and how results are sized and logged.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
