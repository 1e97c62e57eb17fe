// Package resolve turns (url, last name) pairs into instructor first names.
// It owns the per-run URL cache and sequences fetching, candidate selection,
// and name matching; failures of any kind resolve to "not found" and never
// escalate past the resolver boundary.
package resolve

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/qguide-enricher/internal/extraction"
	"github.com/jonathan/qguide-enricher/internal/fetch"
	"github.com/jonathan/qguide-enricher/internal/names"
)

// Cache memoizes URL resolutions for the lifetime of one run. A present empty
// value records "could not resolve"; error states are never stored as
// pseudo-names. Nothing persists across runs since credentials expire.
type Cache struct {
	entries map[string]string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Get returns the cached first name for url. The second value reports whether
// the URL has been resolved before; an empty first value with ok=true means
// the URL resolved to nothing.
func (c *Cache) Get(url string) (string, bool) {
	value, ok := c.entries[url]
	return value, ok
}

// Put records the resolution for url. An empty firstName records "no name".
func (c *Cache) Put(url, firstName string) {
	c.entries[url] = firstName
}

// Len returns the number of cached URLs.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Stats counts resolver activity across one run.
type Stats struct {
	Fetches      int
	CacheHits    int
	Resolved     int
	AuthFailures int
}

// Resolver resolves report URLs to first names. It is not safe for concurrent
// use: resolutions run sequentially to respect the remote service's pacing.
type Resolver struct {
	client *fetch.Client
	cache  *Cache
	stats  Stats
}

// New builds a Resolver around a fetch client with a fresh cache.
func New(client *fetch.Client) *Resolver {
	return &Resolver{
		client: client,
		cache:  NewCache(),
	}
}

// Credentialed reports whether the underlying client holds a session credential.
func (r *Resolver) Credentialed() bool {
	return r.client.Credentialed()
}

// Stats returns a snapshot of the run counters.
func (r *Resolver) Stats() Stats {
	return r.stats
}

// Resolve fetches url and extracts the first name paired with lastName.
// Repeated URLs are answered from the cache without a second fetch. Without a
// session credential no network call is made. Fetch and match failures return
// ("", false); they never abort a batch.
func (r *Resolver) Resolve(ctx context.Context, url, lastName string) (string, bool) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", false
	}
	if cached, ok := r.cache.Get(url); ok {
		r.stats.CacheHits++
		return cached, cached != ""
	}
	if !r.client.Credentialed() {
		slog.Debug("no session credential; skipping", "url", url)
		return "", false
	}

	r.stats.Fetches++
	html, err := r.client.Fetch(ctx, url)
	if err != nil {
		var authErr *fetch.AuthError
		if errors.As(err, &authErr) {
			r.stats.AuthFailures++
			slog.Error("authentication failed; refresh your session cookie",
				"url", url, "error", err)
		} else {
			slog.Warn("fetch failed", "url", url, "error", err)
		}
		r.cache.Put(url, "")
		return "", false
	}

	first := r.extract(html, lastName)
	if first != "" {
		r.stats.Resolved++
		slog.Debug("resolved instructor", "url", url, "first_name", first, "last_name", lastName)
	} else {
		slog.Debug("unable to parse a first name", "url", url, "last_name", lastName)
	}
	r.cache.Put(url, first)
	return first, first != ""
}

// extract runs candidate selection and name matching over one HTML document.
func (r *Resolver) extract(htmlText, lastName string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		slog.Warn("failed to parse HTML", "error", err)
		return ""
	}
	for _, chunk := range extraction.Chunks(doc) {
		if first, ok := names.FindInText(chunk, lastName); ok {
			return first
		}
	}
	return ""
}
