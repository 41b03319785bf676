package script

import (
	"strings"
	"testing"
	"time"

	"flash-actu/pkg/domain"
)

var testItems = []domain.NewsItem{
	{Title: "Grève des transports", Summary: "Perturbations attendues."},
	{Title: "Canicule en août", Summary: "Records de température."},
	{Title: "Budget voté", Summary: ""},
}

func TestBuildPrompt_ContainsItemsAndDate(t *testing.T) {
	prompt := BuildPrompt(testItems, "29 août 2026")

	if !strings.Contains(prompt, `"Bonjour, voici l'essentiel de l'actualité du 29 août 2026."`) {
		t.Errorf("prompt missing opening instruction:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Grève des transports: Perturbations attendues.") {
		t.Errorf("prompt missing first item line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Budget voté: ") {
		t.Errorf("prompt missing empty-summary item line:\n%s", prompt)
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a := BuildPrompt(testItems, "1 janvier 2026")
	b := BuildPrompt(testItems, "1 janvier 2026")
	if a != b {
		t.Error("BuildPrompt is not deterministic")
	}
}

func TestBuildPrompt_DoesNotMutateItems(t *testing.T) {
	items := []domain.NewsItem{{Title: "T", Summary: "S"}}
	BuildPrompt(items, "1 janvier 2026")
	Fallback(items, "1 janvier 2026", 6)

	if items[0].Title != "T" || items[0].Summary != "S" {
		t.Errorf("item list was mutated: %+v", items)
	}
}

func TestFallback_FixedOpeningAndClosing(t *testing.T) {
	got := Fallback(testItems, "29 août 2026", 6)
	lines := strings.Split(got, "\n")

	if lines[0] != "Bonjour, voici l'essentiel de l'actualité du 29 août 2026." {
		t.Errorf("opening line = %q", lines[0])
	}
	if lines[len(lines)-1] != "Bonne journée." {
		t.Errorf("closing line = %q", lines[len(lines)-1])
	}
	if len(lines) != 5 {
		t.Errorf("expected 5 lines (opening + 3 bullets + closing), got %d", len(lines))
	}
	for _, l := range lines[1 : len(lines)-1] {
		if !strings.HasPrefix(l, "• ") || !strings.HasSuffix(l, ".") {
			t.Errorf("bullet line malformed: %q", l)
		}
	}
}

func TestFallback_Deterministic(t *testing.T) {
	a := Fallback(testItems, "2 février 2026", 6)
	b := Fallback(testItems, "2 février 2026", 6)
	if a != b {
		t.Error("Fallback is not deterministic")
	}
}

func TestFallback_CapsItemCount(t *testing.T) {
	var items []domain.NewsItem
	for i := 0; i < 12; i++ {
		items = append(items, domain.NewsItem{Title: "Titre"})
	}

	got := Fallback(items, "1 mai 2026", 6)
	bullets := strings.Count(got, "• ")
	if bullets != 6 {
		t.Errorf("expected 6 bullets, got %d", bullets)
	}
}

func TestClampWords_WithinBudgetUnchanged(t *testing.T) {
	text := "Bonjour, voici trois mots."
	if got := ClampWords(text, 320); got != text {
		t.Errorf("ClampWords changed in-budget text: %q", got)
	}
}

func TestClampWords_TruncatesAtWordBoundary(t *testing.T) {
	text := strings.Repeat("mot ", 400)
	got := ClampWords(text, 320)

	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated text missing continuation marker: %q", got[len(got)-20:])
	}
	// marker is appended without a separating space, so the word count
	// stays at the budget
	if n := WordCount(got); n > 320 {
		t.Errorf("word count = %d, want <= 320", n)
	}
	if strings.Contains(got, "mo…") && !strings.Contains(got, "mot…") {
		t.Errorf("truncation split a word: %q", got[len(got)-20:])
	}
}

func TestClampWords_StripsTrailingPunctuation(t *testing.T) {
	got := ClampWords("un deux trois. quatre cinq", 3)
	if got != "un deux trois…" {
		t.Errorf("ClampWords = %q, want %q", got, "un deux trois…")
	}
}

func TestClampWords_NeverEmptyFromNonEmpty(t *testing.T) {
	got := ClampWords("mot un deux", 1)
	if got == "" {
		t.Fatal("ClampWords produced empty output from non-empty input")
	}
}

func TestDateLabel_French(t *testing.T) {
	d := time.Date(2026, time.August, 29, 8, 0, 0, 0, time.UTC)
	if got := DateLabel(d); got != "29 août 2026" {
		t.Errorf("DateLabel = %q, want %q", got, "29 août 2026")
	}

	d = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := DateLabel(d); got != "1 janvier 2026" {
		t.Errorf("DateLabel = %q, want %q", got, "1 janvier 2026")
	}
}
