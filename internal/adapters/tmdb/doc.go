// Package tmdb is the metadata provider adapter.
//
// The client talks to a TMDB-compatible API, converts records into
// model.Entity values and guards every outbound call with a rate limiter,
// bounded retries with jittered exponential backoff and a circuit breaker.
// Identical in-flight requests share one round trip; nothing is cached once
// the round trip completes.
package tmdb
