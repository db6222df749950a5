package feed

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"
)

// Fetcher retrieves and parses feed documents. Fetches are retried with a
// fixed delay, and each attempt carries a cache-defeating query parameter so
// upstream HTTP caches cannot serve a stale document.
type Fetcher struct {
	httpClient   *http.Client
	gofeedParser *gofeed.Parser
	cache        *responseCache
	userAgent    string
	now          func() time.Time
}

func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient:   httpClient,
		gofeedParser: gofeed.NewParser(),
		cache:        newResponseCache(time.Now),
		userAgent:    userAgent,
		now:          time.Now,
	}
}

// Run fetches the feed at feedURL and returns its items, capped to
// opts.ItemLimit. A result still fresh in the local cache is reused without
// touching the network. On failure the last attempt's error is returned.
func (f *Fetcher) Run(ctx context.Context, feedURL string, opts FetchOptions) ([]Item, error) {
	cacheTTL := time.Duration(opts.CacheTTL) * time.Second

	if body, ok := f.cache.Get(feedURL, cacheTTL); ok {
		items, err := f.parseItems(body, opts.ItemLimit)
		if err == nil {
			slog.Debug("Using cached feed document", "url", feedURL, "items", len(items))
			return items, nil
		}
		f.cache.Invalidate(feedURL)
	}

	attempts := opts.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryDelay := time.Duration(opts.RetryDelay) * time.Second

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			// A retry must not see anything cached for this URL
			f.cache.Invalidate(feedURL)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		body, err := f.fetchOnce(ctx, feedURL, opts.Timeout)
		if err != nil {
			lastErr = err
			slog.Warn("Feed fetch attempt failed", "url", feedURL, "attempt", attempt, "max_attempts", attempts, "error", err)
			continue
		}

		items, err := f.parseItems(body, opts.ItemLimit)
		if err != nil {
			lastErr = err
			slog.Warn("Feed parse attempt failed", "url", feedURL, "attempt", attempt, "max_attempts", attempts, "error", err)
			continue
		}

		f.cache.Set(feedURL, body)
		return items, nil
	}

	return nil, fmt.Errorf("failed to fetch feed after %d attempts: %w", attempts, lastErr)
}

// Invalidate drops any cached document for the given feed URL.
func (f *Fetcher) Invalidate(feedURL string) {
	f.cache.Invalidate(feedURL)
}

func (f *Fetcher) fetchOnce(ctx context.Context, feedURL string, timeout int) ([]byte, error) {
	requestURL, err := f.cacheDefeatURL(feedURL)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// cacheDefeatURL appends the current time as a query parameter so every
// attempt reaches the origin instead of an upstream cache.
func (f *Fetcher) cacheDefeatURL(feedURL string) (string, error) {
	parsed, err := url.Parse(feedURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse feed URL: %w", err)
	}

	query := parsed.Query()
	query.Set("t", strconv.FormatInt(f.now().Unix(), 10))
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

func (f *Fetcher) parseItems(data []byte, limit int) ([]Item, error) {
	parsed, err := f.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}

		link := cmp.Or(item.Link, item.GUID)
		if link == "" {
			continue
		}

		items = append(items, Item{
			Link:  link,
			Title: item.Title,
		})

		if limit > 0 && len(items) >= limit {
			break
		}
	}

	return items, nil
}
