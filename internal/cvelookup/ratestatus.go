package cvelookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RateLimitStatus is the search quota reported by GET /rate_limit.
type RateLimitStatus struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type rateLimitResponse struct {
	Resources struct {
		Search struct {
			Limit     int   `json:"limit"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"search"`
	} `json:"resources"`
}

// RateLimit reports the current search quota for the client's token. The
// endpoint does not count against the quota.
func (c *Client) RateLimit(ctx context.Context) (RateLimitStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.JoinPath("rate_limit").String(), nil)
	if err != nil {
		return RateLimitStatus{}, fmt.Errorf("cvelookup: build rate limit request: %w", err)
	}
	c.applyHeaders(httpReq, c.token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return RateLimitStatus{}, fmt.Errorf("cvelookup: rate limit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyBytes))
		return RateLimitStatus{}, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	var payload rateLimitResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return RateLimitStatus{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	search := payload.Resources.Search
	status := RateLimitStatus{Limit: search.Limit, Remaining: search.Remaining}
	if search.Reset > 0 {
		status.ResetAt = time.Unix(search.Reset, 0)
	}
	return status, nil
}
