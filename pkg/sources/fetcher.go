package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"flash-actu/pkg/httpclient"
)

// Source is one configured news feed. Sources are fetched in the order
// they are configured and their items are concatenated in that order.
type Source struct {
	Name string
	URL  string
}

// RawEntry is one unprocessed entry as returned by a feed source.
// Title and Summary may carry embedded markup.
type RawEntry struct {
	Title   string
	Summary string
	Link    string
}

// Fetcher returns the raw entries of a single feed source.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]RawEntry, error)
}

// FeedFetcher fetches and parses RSS/Atom feeds using gofeed.
type FeedFetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewFeedFetcher creates a feed fetcher with a fixed per-source timeout.
func NewFeedFetcher(timeout time.Duration) *FeedFetcher {
	parser := gofeed.NewParser()
	parser.Client = httpclient.NewClient(httpclient.BrowserClient, timeout).Std()

	return &FeedFetcher{
		parser:  parser,
		timeout: timeout,
	}
}

// Fetch retrieves and parses the feed at the given URL.
func (f *FeedFetcher) Fetch(ctx context.Context, url string) ([]RawEntry, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	if feed == nil || len(feed.Items) == 0 {
		return nil, fmt.Errorf("feed contains no items")
	}

	entries := make([]RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		entries = append(entries, RawEntry{
			Title:   item.Title,
			Summary: summary,
			Link:    item.Link,
		})
	}

	return entries, nil
}
