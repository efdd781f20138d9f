// Package cvelookup resolves CVE identifiers to their announcement issue on
// GitHub.
//
// A Client issues one issue-search query per identifier and classifies every
// response as rate-limited, failed, matched, or empty. Rate-limited responses
// are retried under a RetryPolicy: an advertised X-RateLimit-Reset instant is
// honoured exactly, otherwise the client falls back to doubling backoff. Both
// paths draw from the same attempt budget, and running out of it surfaces as
// ErrRetryBudgetExhausted so callers can tell a saturated API from a broken one.
//
// Matches without a usable title or link collapse to the redaction pair so a
// rendered page never shows a bare link without context.
package cvelookup
