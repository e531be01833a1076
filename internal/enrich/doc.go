// Package enrich turns recommended titles into display metadata.
//
// Enrichment is fail-soft: Fetch and FetchAll never return errors. A provider
// failure of any kind (transport error, bad status, malformed body, timeout,
// rate-limit cancellation, open circuit breaker) is logged at WARN and
// replaced with a fixed fallback value, so one broken lookup cannot abort a
// recommendation request. Lookups are never retried.
//
// FetchAll runs lookups in parallel up to the configured concurrency while
// keeping results aligned with the input order.
package enrich
