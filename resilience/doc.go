// Package resilience holds the fault-handling primitives used by the
// service. Poll drives remote jobs at a fixed interval. Retry runs
// jittered exponential backoff from cenkalti/backoff. CircuitBreaker wraps
// sony/gobreaker, RateLimiter wraps golang.org/x/time/rate, and Bulkhead
// caps concurrent voice pipelines on a weighted semaphore.
package resilience
