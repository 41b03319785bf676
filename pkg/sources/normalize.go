package sources

import (
	"flash-actu/pkg/content"
	"flash-actu/pkg/domain"
)

// Normalize converts raw feed entries into canonical news items: markup is
// stripped, whitespace collapsed, entries without a usable title are
// dropped and summaries are capped at summaryMax characters.
// Ordering within the input is preserved.
func Normalize(entries []RawEntry, summaryMax int) []domain.NewsItem {
	items := make([]domain.NewsItem, 0, len(entries))
	for _, e := range entries {
		title := content.StripMarkup(e.Title)
		if title == "" {
			continue
		}

		summary := content.StripMarkup(e.Summary)
		if summaryMax > 0 {
			if runes := []rune(summary); len(runes) > summaryMax {
				summary = string(runes[:summaryMax])
			}
		}

		items = append(items, domain.NewsItem{
			Title:   title,
			Summary: summary,
		})
	}
	return items
}
