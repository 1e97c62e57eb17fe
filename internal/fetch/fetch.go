// Package fetch retrieves report pages over an authenticated session.
// It centralizes pacing, retry with capped exponential backoff, and the
// detection of expired-session responses.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

// DefaultTimeout is the per-request HTTP timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies the tool to the remote service.
const DefaultUserAgent = "HarvardQFirstNameFetcher/1.0 (+https://github.com/)"

// DefaultAcceptLanguage is sent with every request.
const DefaultAcceptLanguage = "en-US,en;q=0.9"

// DefaultDelay is the pacing delay between requests.
const DefaultDelay = 500 * time.Millisecond

// DefaultMaxRetries is the attempt budget per URL.
const DefaultMaxRetries = 3

// backoffCap bounds the exponential retry backoff.
const backoffCap = 10 * time.Second

// defaultLoginMarkers identify a login page served in place of a report,
// which means the session credential is invalid or expired.
var defaultLoginMarkers = []string{
	"HarvardKey - Sign In",
	"login-form",
}

// Error represents a fetch failure after the retry budget was exhausted.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// AuthError is a terminal authentication failure: a 401/403 status, or a login
// page served with a 200. It is never retried; the session credential must be
// refreshed before any further fetch can succeed.
type AuthError struct {
	URL        string
	StatusCode int
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed for %s: HTTP %d; credential invalid or expired", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("authentication failed for %s: login page returned; credential invalid or expired", e.URL)
}

// Options configures the fetch client.
type Options struct {
	Credential   string        // Cookie header value of the authenticated session
	Delay        time.Duration // pacing delay applied after each received response
	MaxRetries   int           // attempts per URL, clamped to at least 1
	Timeout      time.Duration
	UserAgent    string
	LoginMarkers []string
}

// DefaultOptions returns sensible defaults; the credential stays empty.
func DefaultOptions() *Options {
	return &Options{
		Delay:      DefaultDelay,
		MaxRetries: DefaultMaxRetries,
		Timeout:    DefaultTimeout,
		UserAgent:  DefaultUserAgent,
	}
}

// Client issues credentialed GETs with pacing and capped exponential backoff.
// Calls are blocking; one fetch runs to completion before the next starts.
type Client struct {
	http       *resty.Client
	credential string
	delay      time.Duration
	maxRetries int
	markers    []string
	sleep      func(time.Duration)
}

// NewClient builds a Client from opts, filling in defaults for zero values.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	delay := opts.Delay
	if delay < 0 {
		delay = 0
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	markers := opts.LoginMarkers
	if markers == nil {
		markers = defaultLoginMarkers
	}

	httpClient := resty.New()
	httpClient.SetTimeout(timeout)
	httpClient.SetHeader("User-Agent", userAgent)
	httpClient.SetHeader("Accept-Language", DefaultAcceptLanguage)

	return &Client{
		http:       httpClient,
		credential: opts.Credential,
		delay:      delay,
		maxRetries: maxRetries,
		markers:    markers,
		sleep:      time.Sleep,
	}
}

// Credentialed reports whether a session credential was supplied.
func (c *Client) Credentialed() bool {
	return c.credential != ""
}

// Fetch GETs url and returns the HTML body.
//
// Transport errors and retryable statuses back off exponentially (doubling
// from the pacing delay, capped at 10s) up to the retry budget; no backoff
// follows the final failed attempt. A 401/403 status or a login-page body
// fails immediately with *AuthError. The pacing delay is applied after every
// received response so repeated attempts never hammer the remote service.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.InitialInterval = c.delay
	retryBackoff.MaxInterval = backoffCap
	retryBackoff.Multiplier = 2.0
	retryBackoff.RandomizationFactor = 0
	retryBackoff.MaxElapsedTime = 0

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Cookie", c.credential).
			Get(url)
		if err != nil {
			lastErr = err
			slog.Warn("request failed",
				"url", url, "attempt", attempt, "max_retries", c.maxRetries, "error", err)
			c.backoffSleep(retryBackoff, attempt)
			continue
		}

		if c.delay > 0 {
			c.sleep(c.delay)
		}

		status := resp.StatusCode()
		if status != http.StatusOK {
			slog.Warn("unexpected HTTP status",
				"url", url, "status", status, "attempt", attempt, "max_retries", c.maxRetries)
			if status == http.StatusUnauthorized || status == http.StatusForbidden {
				return "", &AuthError{URL: url, StatusCode: status}
			}
			lastErr = fmt.Errorf("HTTP status %d", status)
			c.backoffSleep(retryBackoff, attempt)
			continue
		}

		body := resp.String()
		if c.isLoginPage(body) {
			return "", &AuthError{URL: url}
		}
		return body, nil
	}

	return "", &Error{
		URL:     url,
		Message: fmt.Sprintf("no response after %d attempts", c.maxRetries),
		Cause:   lastErr,
	}
}

// backoffSleep waits before the next attempt. The final failed attempt gets
// no backoff.
func (c *Client) backoffSleep(b *backoff.ExponentialBackOff, attempt int) {
	if attempt >= c.maxRetries {
		return
	}
	if wait := b.NextBackOff(); wait > 0 {
		c.sleep(wait)
	}
}

func (c *Client) isLoginPage(body string) bool {
	for _, marker := range c.markers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}
