// Package intercept provides ready-made interceptors for the resilience
// pipeline: header injection, field redaction, and structured call logging.
//
// Interceptors never own control flow; a failing interceptor is skipped by
// the pipeline and the guarded call proceeds unchanged.
package intercept
