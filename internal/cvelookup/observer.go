package cvelookup

import "time"

// Outcome classifies how a Resolve call ended.
type Outcome string

const (
	OutcomeFound     Outcome = "found"
	OutcomeRedacted  Outcome = "redacted"
	OutcomeExhausted Outcome = "exhausted"
	OutcomeFailed    Outcome = "failed"
)

// Observer receives lookup events, typically to feed metrics.
type Observer interface {
	ObserveRequest(statusCode int)
	ObserveRateLimit(wait time.Duration, authoritative bool)
	ObserveOutcome(outcome Outcome)
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(int)                   {}
func (nopObserver) ObserveRateLimit(time.Duration, bool) {}
func (nopObserver) ObserveOutcome(Outcome)               {}
