package cvelookup

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Retry defaults for rate-limited searches.
const (
	DefaultMaxAttempts    = 5
	DefaultInitialBackoff = 2 * time.Second
)

const rateLimitResetHeader = "X-RateLimit-Reset"

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy controls how rate-limited responses are retried. Zero fields
// take the package defaults.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	Sleep          func(ctx context.Context, d time.Duration) error
	Now            func() time.Time
}

func (p RetryPolicy) withDefaults() (RetryPolicy, error) {
	if p.MaxAttempts == 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.InitialBackoff == 0 {
		p.InitialBackoff = DefaultInitialBackoff
	}
	if p.MaxAttempts < 1 {
		return p, errors.New("cvelookup: max attempts must be at least 1")
	}
	if p.InitialBackoff < 0 {
		return p, errors.New("cvelookup: initial backoff must be positive")
	}
	if p.Sleep == nil {
		p.Sleep = SleepWithContext
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return p, nil
}

// RateLimitSignal is what one response says about the rate limit.
type RateLimitSignal struct {
	Limited bool
	// ResetAt is zero when the response carried no usable reset instant.
	ResetAt time.Time
}

func rateLimitSignal(resp *http.Response) RateLimitSignal {
	if resp == nil {
		return RateLimitSignal{}
	}
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return RateLimitSignal{}
	}
	signal := RateLimitSignal{Limited: true}
	raw := strings.TrimSpace(resp.Header.Get(rateLimitResetHeader))
	if raw == "" {
		return signal
	}
	epoch, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || epoch < 0 {
		return signal
	}
	signal.ResetAt = time.Unix(epoch, 0)
	return signal
}

// retryState lives for one Resolve call.
type retryState struct {
	attempts int
	backoff  time.Duration
}

// nextWait returns how long to suspend before retrying and whether the wait
// came from the advertised reset instant. Only the fallback path doubles the
// backoff.
func (s *retryState) nextWait(signal RateLimitSignal, now time.Time) (time.Duration, bool) {
	if !signal.ResetAt.IsZero() {
		wait := signal.ResetAt.Sub(now)
		if wait < 0 {
			wait = 0
		}
		return wait, true
	}
	wait := s.backoff
	s.backoff *= 2
	return wait, false
}
