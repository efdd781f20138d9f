package cvelookup

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrRetryBudgetExhausted reports that the rate limit never cleared within the attempt budget.
	ErrRetryBudgetExhausted = errors.New("cvelookup: retry budget exhausted")
	// ErrRemoteFailure reports a non-success, non-rate-limit response.
	ErrRemoteFailure = errors.New("cvelookup: remote failure")
	// ErrMalformedResponse reports a success response whose body is not the expected JSON.
	ErrMalformedResponse = errors.New("cvelookup: malformed response")
)

// StatusError carries the details of a hard remote failure.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	status := strings.TrimSpace(e.Status)
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Body == "" {
		return fmt.Sprintf("cvelookup: search failed (%s)", status)
	}
	return fmt.Sprintf("cvelookup: search failed (%s): %s", status, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrRemoteFailure
}

// RetryBudgetError names the identifier whose lookup stayed rate limited.
type RetryBudgetError struct {
	Identifier string
	Attempts   int
}

func (e *RetryBudgetError) Error() string {
	return fmt.Sprintf("cvelookup: %s still rate limited after %d attempts", e.Identifier, e.Attempts)
}

func (e *RetryBudgetError) Unwrap() error {
	return ErrRetryBudgetExhausted
}
