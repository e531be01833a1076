// Package omdb provides the minimal Open Movie Database client used to enrich
// recommendations with posters, ratings, and plots.
//
// Lookups are keyed by exact title (`?t=`). The response is modelled as a
// partial record: every field may be missing, and the provider uses "N/A" as
// its own not-available sentinel. Interpreting those values is left to the
// caller. Options allow tests to supply custom HTTP clients.
package omdb
