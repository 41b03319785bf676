package sources

import (
	"context"
	"errors"
	"log"
	"sync"

	"flash-actu/pkg/domain"
)

// ErrNoContent is returned when every configured source contributed zero
// items. No script can be composed from an empty item list, so the caller
// must treat this as fatal.
var ErrNoContent = errors.New("no items collected from any source")

// Collector fetches every configured source and merges the normalized
// items in source order. Sources are fetched in parallel; one failing or
// slow source never affects the others.
type Collector struct {
	fetcher      Fetcher
	enricher     *Enricher
	maxPerSource int
	summaryMax   int
}

// NewCollector creates a collector. maxPerSource bounds how many entries
// each source may contribute; summaryMax caps summary length in characters.
func NewCollector(fetcher Fetcher, maxPerSource, summaryMax int) *Collector {
	return &Collector{
		fetcher:      fetcher,
		maxPerSource: maxPerSource,
		summaryMax:   summaryMax,
	}
}

// SetEnricher enables best-effort summary backfilling for entries that
// arrive without one.
func (c *Collector) SetEnricher(e *Enricher) {
	c.enricher = e
}

// Collect fetches all sources and returns the combined item list.
// A source that cannot be retrieved or parsed is logged as a warning and
// contributes nothing. ErrNoContent is returned when the combined list is
// empty.
func (c *Collector) Collect(ctx context.Context, srcs []Source) ([]domain.NewsItem, error) {
	perSource := make([][]domain.NewsItem, len(srcs))

	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			perSource[i] = c.collectOne(ctx, src)
		}(i, src)
	}
	wg.Wait()

	var combined []domain.NewsItem
	for _, items := range perSource {
		combined = append(combined, items...)
	}

	if len(combined) == 0 {
		return nil, ErrNoContent
	}

	log.Printf("Collector: collected %d items from %d sources", len(combined), len(srcs))
	return combined, nil
}

// collectOne fetches, trims and normalizes a single source.
func (c *Collector) collectOne(ctx context.Context, src Source) []domain.NewsItem {
	entries, err := c.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		log.Printf("Collector: WARN source %s (%s) failed: %v", src.Name, src.URL, err)
		return nil
	}

	if c.maxPerSource > 0 && len(entries) > c.maxPerSource {
		entries = entries[:c.maxPerSource]
	}

	if c.enricher != nil {
		c.enricher.Enrich(ctx, entries)
	}

	items := Normalize(entries, c.summaryMax)
	log.Printf("Collector: source %s contributed %d items", src.Name, len(items))
	return items
}
