// Package fetch performs the HTTP GETs truthsaver makes against the rankings
// site and wraps any fallible operation in bounded exponential backoff.
//
// Every non-2xx response is a fetch failure eligible for retry; after the
// attempts are exhausted the last failure is returned to the caller, which
// decides whether it is a stage-level or entry-level problem.
package fetch
