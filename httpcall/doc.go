// Package httpcall adapts HTTP requests into resilience operations. API
// client wrappers build a request per call; the adapter issues it, maps
// non-2xx statuses to *resilience.APIError so the retry policy and circuit
// breakers can classify them, and passes transport errors through unchanged.
package httpcall
