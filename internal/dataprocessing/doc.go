// Package dataprocessing implements the core of the reporting job: merging
// the tracked years' datasets, coercing and filtering rows to the rolling
// 365-day window, and computing the per-column averages that feed the styled
// summary row of the Excel artifact.
//
// All functions are pure: they take datasets and timestamps and return new
// values, which keeps the rolling window deterministic under an injected
// clock.
package dataprocessing
