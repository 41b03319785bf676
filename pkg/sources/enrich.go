package sources

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"flash-actu/pkg/content"
	"flash-actu/pkg/httpclient"
)

// Enricher backfills missing entry summaries by fetching the linked
// article page and extracting its readable text. Enrichment is strictly
// best-effort: any failure leaves the entry untouched.
type Enricher struct {
	client *httpclient.HTTPClient
}

// NewEnricher creates an enricher with a fixed per-article timeout.
func NewEnricher(timeout time.Duration) *Enricher {
	return &Enricher{
		client: httpclient.NewClient(httpclient.CloudflareClient, timeout),
	}
}

// Enrich fills the Summary (and a missing Title) of entries that carry a
// link but arrived incomplete.
func (e *Enricher) Enrich(ctx context.Context, entries []RawEntry) {
	for i := range entries {
		missingSummary := strings.TrimSpace(entries[i].Summary) == ""
		missingTitle := strings.TrimSpace(entries[i].Title) == ""
		if (!missingSummary && !missingTitle) || entries[i].Link == "" {
			continue
		}

		page, err := e.fetchArticle(ctx, entries[i].Link)
		if err != nil {
			log.Printf("Enricher: WARN could not enrich %s: %v", entries[i].Link, err)
			continue
		}

		if missingSummary {
			if text, err := content.ExtractText(page); err == nil && text != "" {
				entries[i].Summary = text
			}
		}
		if missingTitle {
			if title, err := content.ExtractTitle(page); err == nil {
				entries[i].Title = title
			}
		}
	}
}

// fetchArticle downloads an article page.
func (e *Enricher) fetchArticle(ctx context.Context, url string) (string, error) {
	resp, err := e.client.GetContext(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}
