package cvelookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"relnotes/internal/logging"
)

const (
	defaultBaseURL     = "https://api.github.com"
	defaultRepository  = "dotnet/announcements"
	defaultUserAgent   = "Mozilla/5.0 (compatible; dotnet-cve-search/1.0)"
	defaultHTTPTimeout = 30 * time.Second

	acceptHeader     = "application/vnd.github+json"
	maxResponseBytes = 8 << 20
	errorBodyBytes   = 4096
)

// Config describes the lookup client configuration.
type Config struct {
	Token      string
	BaseURL    string
	Repository string
	UserAgent  string
	HTTPClient *http.Client
	Policy     RetryPolicy
	Logger     *slog.Logger
	Observer   Observer
}

// Client searches GitHub issues for CVE announcements. It holds no mutable
// state between calls.
type Client struct {
	token      string
	repository string
	userAgent  string
	baseURL    *url.URL
	http       *http.Client
	policy     RetryPolicy
	logger     *slog.Logger
	observer   Observer
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	policy, err := cfg.Policy.withDefaults()
	if err != nil {
		return nil, err
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("cvelookup: parse base url: %w", err)
	}
	if !baseURL.IsAbs() {
		return nil, fmt.Errorf("cvelookup: base url %q must be absolute", base)
	}
	repository := strings.Trim(strings.TrimSpace(cfg.Repository), "/")
	if repository == "" {
		repository = defaultRepository
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	observer := cfg.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &Client{
		token:      strings.TrimSpace(cfg.Token),
		repository: repository,
		userAgent:  userAgent,
		baseURL:    baseURL,
		http:       client,
		policy:     policy,
		logger:     logging.NewComponentLogger(cfg.Logger, "cvelookup"),
		observer:   observer,
	}, nil
}

// Resolve looks up the announcement for req.Identifier. The identifier is
// embedded in the query as given; callers normalise it. Rate-limited
// responses are retried under the client's policy; every other failure is
// returned immediately.
func (c *Client) Resolve(ctx context.Context, req Request) (Result, error) {
	if c == nil {
		return Result{}, errors.New("cvelookup: client is nil")
	}
	identifier := req.Identifier
	if strings.TrimSpace(identifier) == "" {
		return Result{}, errors.New("cvelookup: identifier is required")
	}
	credential := strings.TrimSpace(req.Credential)
	if credential == "" {
		credential = c.token
	}
	logger := logging.WithContext(ctx, c.logger).With(logging.String(logging.FieldIdentifier, identifier))

	state := retryState{backoff: c.policy.InitialBackoff}
	for state.attempts < c.policy.MaxAttempts {
		state.attempts++
		result, signal, err := c.search(ctx, identifier, credential)
		if err != nil {
			c.observer.ObserveOutcome(OutcomeFailed)
			return Result{}, err
		}
		if !signal.Limited {
			if result.IsRedacted() {
				c.observer.ObserveOutcome(OutcomeRedacted)
				logging.WarnWithContext(logger, "no usable announcement found; using redaction text", "cve_lookup_redacted",
					logging.Int("attempt", state.attempts),
					logging.String(logging.FieldErrorHint, "confirm the identifier has an announcement issue"),
					logging.String(logging.FieldImpact, "row rendered without a link"),
				)
			} else {
				c.observer.ObserveOutcome(OutcomeFound)
				logger.Debug("cve lookup resolved",
					logging.Int("attempt", state.attempts),
					logging.String("url", result.URL),
				)
			}
			return result, nil
		}
		if state.attempts >= c.policy.MaxAttempts {
			break
		}
		wait, authoritative := state.nextWait(signal, c.policy.Now())
		c.observer.ObserveRateLimit(wait, authoritative)
		logging.WarnWithContext(logger, "github rate limited, retrying", "cve_lookup_rate_limited",
			logging.Duration("wait", wait),
			logging.Bool("reset_header", authoritative),
			logging.Int("attempt", state.attempts),
			logging.Int("max_attempts", c.policy.MaxAttempts),
			logging.String(logging.FieldErrorHint, "wait for the rate limit window or use a token with a higher quota"),
			logging.String(logging.FieldImpact, "lookup delayed"),
		)
		if err := c.policy.Sleep(ctx, wait); err != nil {
			c.observer.ObserveOutcome(OutcomeFailed)
			return Result{}, err
		}
	}

	c.observer.ObserveOutcome(OutcomeExhausted)
	return Result{}, &RetryBudgetError{Identifier: identifier, Attempts: state.attempts}
}

// search performs one attempt. A rate-limited response yields a Limited
// signal and no error.
func (c *Client) search(ctx context.Context, identifier, credential string) (Result, RateLimitSignal, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(identifier), nil)
	if err != nil {
		return Result{}, RateLimitSignal{}, fmt.Errorf("cvelookup: build search request: %w", err)
	}
	c.applyHeaders(httpReq, credential)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, RateLimitSignal{}, fmt.Errorf("cvelookup: search request failed: %w", err)
	}
	defer resp.Body.Close()
	c.observer.ObserveRequest(resp.StatusCode)

	if signal := rateLimitSignal(resp); signal.Limited {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, errorBodyBytes))
		return Result{}, signal, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyBytes))
		return Result{}, RateLimitSignal{}, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, RateLimitSignal{}, fmt.Errorf("cvelookup: read search response: %w", err)
	}
	result, err := parseSearchResponse(body)
	if err != nil {
		return Result{}, RateLimitSignal{}, err
	}
	return result, RateLimitSignal{}, nil
}

func (c *Client) searchURL(identifier string) string {
	endpoint := c.baseURL.JoinPath("search", "issues")
	params := url.Values{}
	params.Set("q", identifier+" repo:"+c.repository)
	endpoint.RawQuery = params.Encode()
	return endpoint.String()
}

func (c *Client) applyHeaders(req *http.Request, credential string) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptHeader)
	if credential != "" {
		token := &oauth2.Token{AccessToken: credential, TokenType: "Bearer"}
		token.SetAuthHeader(req)
	}
}
