package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"flash-actu/pkg/config"
	"flash-actu/pkg/feed"
	"flash-actu/pkg/sources"
)

type fakeFetcher struct {
	entries map[string][]sources.RawEntry
	errs    map[string]error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]sources.RawEntry, error) {
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	return f.entries[url], nil
}

type stubGenerator struct {
	text string
	err  error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.text, g.err
}

type stubSynthesizer struct {
	err   error
	calls int
	text  string
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	s.calls++
	s.text = text
	if s.err != nil {
		return nil, s.err
	}
	return []byte("AUDIO"), nil
}

func testConfig(t *testing.T, srcs []sources.Source) *config.Config {
	t.Helper()
	return &config.Config{
		Sources:          srcs,
		OutDir:           t.TempDir(),
		BaseURL:          "https://alice.github.io/flash-actu",
		OpenAIModel:      "gpt-4o-mini",
		VoiceLang:        "fr",
		MaxWords:         320,
		MaxPerSource:     5,
		SummaryMaxLen:    240,
		FallbackMaxItems: 6,
		FeedRetention:    50,
		FeedTitle:        "Flash Actu Perso",
		FeedDescription:  "Résumé quotidien ~2 minutes",
	}
}

func fixedNow() time.Time {
	return time.Date(2026, time.August, 29, 7, 0, 0, 0, time.UTC)
}

func newTestPipeline(t *testing.T, cfg *config.Config, fetcher sources.Fetcher, gen *stubGenerator, synth *stubSynthesizer) *Pipeline {
	t.Helper()
	collector := sources.NewCollector(fetcher, cfg.MaxPerSource, cfg.SummaryMaxLen)
	publisher := feed.NewPublisher(filepath.Join(cfg.OutDir, "feed.xml"), feed.Channel{
		Title:       cfg.FeedTitle,
		Link:        cfg.BaseURL,
		Description: cfg.FeedDescription,
		Language:    cfg.VoiceLang,
	}, cfg.FeedRetention)

	var p *Pipeline
	if gen == nil {
		p = New(cfg, collector, nil, synth, publisher)
	} else {
		p = New(cfg, collector, gen, synth, publisher)
	}
	p.SetNow(fixedNow)
	return p
}

// Three sources of two plain items each, generation disabled: the
// fallback script carries exactly six bulleted lines between the fixed
// opening and closing lines.
func TestRun_FallbackScriptFromThreeSources(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]sources.RawEntry{
		"a": {{Title: "A un"}, {Title: "A deux"}},
		"b": {{Title: "B un"}, {Title: "B deux"}},
		"c": {{Title: "C un"}, {Title: "C deux"}},
	}}
	srcs := []sources.Source{{Name: "a", URL: "a"}, {Name: "b", URL: "b"}, {Name: "c", URL: "c"}}
	cfg := testConfig(t, srcs)
	synth := &stubSynthesizer{}

	p := newTestPipeline(t, cfg, fetcher, nil, synth)
	ep, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	lines := strings.Split(ep.Script, "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 script lines (opening + 6 bullets + closing), got %d:\n%s", len(lines), ep.Script)
	}
	if lines[0] != "Bonjour, voici l'essentiel de l'actualité du 29 août 2026." {
		t.Errorf("opening line = %q", lines[0])
	}
	if lines[7] != "Bonne journée." {
		t.Errorf("closing line = %q", lines[7])
	}
	for _, l := range lines[1:7] {
		if !strings.HasPrefix(l, "• ") {
			t.Errorf("expected bullet line, got %q", l)
		}
	}
	if !ep.Generation.Fallback {
		t.Error("episode not marked as fallback")
	}
	if synth.text != ep.Script {
		t.Error("synthesized text differs from episode script")
	}
}

// A failing generation service is absorbed: the run falls back and still
// reaches publishing.
func TestRun_GenerationFailureFallsBack(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]sources.RawEntry{
		"a": {{Title: "Une brève", Summary: "Résumé."}},
	}}
	cfg := testConfig(t, []sources.Source{{Name: "a", URL: "a"}})
	gen := &stubGenerator{err: errors.New("request failed: context deadline exceeded")}
	synth := &stubSynthesizer{}

	p := newTestPipeline(t, cfg, fetcher, gen, synth)
	ep, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if !ep.Generation.Fallback {
		t.Error("expected fallback generation info")
	}
	if !strings.HasPrefix(ep.Script, "Bonjour, voici l'essentiel de l'actualité du") {
		t.Errorf("fallback script not used: %q", ep.Script)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutDir, "feed.xml")); err != nil {
		t.Errorf("feed document not published: %v", err)
	}
}

// A successful generation is length-bounded and published as-is.
func TestRun_GeneratedScriptIsBounded(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]sources.RawEntry{
		"a": {{Title: "Une brève"}},
	}}
	cfg := testConfig(t, []sources.Source{{Name: "a", URL: "a"}})
	cfg.MaxWords = 10
	gen := &stubGenerator{text: strings.Repeat("mot ", 50)}
	synth := &stubSynthesizer{}

	p := newTestPipeline(t, cfg, fetcher, gen, synth)
	ep, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if ep.Generation.Fallback {
		t.Error("unexpected fallback")
	}
	if n := len(strings.Fields(ep.Script)); n > 10 {
		t.Errorf("script has %d words, want <= 10", n)
	}
	if !strings.HasSuffix(ep.Script, "…") {
		t.Errorf("bounded script missing continuation marker: %q", ep.Script)
	}
}

// All sources failing aborts the run before composing anything.
func TestRun_AllSourcesFail(t *testing.T) {
	fetcher := &fakeFetcher{errs: map[string]error{
		"a": errors.New("timeout"),
		"b": errors.New("timeout"),
		"c": errors.New("timeout"),
	}}
	cfg := testConfig(t, []sources.Source{{URL: "a"}, {URL: "b"}, {URL: "c"}})
	synth := &stubSynthesizer{}

	p := newTestPipeline(t, cfg, fetcher, nil, synth)
	_, err := p.Run(context.Background())
	if !errors.Is(err, sources.ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
	if synth.calls != 0 {
		t.Errorf("synthesizer called %d times on a failed run", synth.calls)
	}
}

// Synthesis failure is fatal and typed.
func TestRun_SynthesisFailureIsFatal(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]sources.RawEntry{
		"a": {{Title: "Une brève"}},
	}}
	cfg := testConfig(t, []sources.Source{{URL: "a"}})
	synth := &stubSynthesizer{err: errors.New("unsupported language")}

	p := newTestPipeline(t, cfg, fetcher, nil, synth)
	_, err := p.Run(context.Background())

	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("expected SynthesisError, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(cfg.OutDir, "feed.xml")); statErr == nil {
		t.Error("feed document written despite synthesis failure")
	}
}

// A publish failure preserves the audio and transcript artifacts.
func TestRun_PublishFailurePreservesArtifacts(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]sources.RawEntry{
		"a": {{Title: "Une brève"}},
	}}
	cfg := testConfig(t, []sources.Source{{URL: "a"}})
	synth := &stubSynthesizer{}

	collector := sources.NewCollector(fetcher, cfg.MaxPerSource, cfg.SummaryMaxLen)
	// a feed path whose parent cannot be created forces the publish to fail
	blocked := filepath.Join(cfg.OutDir, "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	publisher := feed.NewPublisher(filepath.Join(blocked, "feed.xml"), feed.Channel{}, 50)

	p := New(cfg, collector, nil, synth, publisher)
	p.SetNow(fixedNow)

	_, err := p.Run(context.Background())
	var pubErr *PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected PublishError, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(cfg.OutDir, "flash_2026-08-29.mp3")); err != nil {
		t.Errorf("audio artifact missing after publish failure: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutDir, "flash_2026-08-29.txt")); err != nil {
		t.Errorf("transcript artifact missing after publish failure: %v", err)
	}
}

// Artifact naming and enclosure URL derive from the run date.
func TestRun_ArtifactNaming(t *testing.T) {
	fetcher := &fakeFetcher{entries: map[string][]sources.RawEntry{
		"a": {{Title: "Une brève"}},
	}}
	cfg := testConfig(t, []sources.Source{{URL: "a"}})
	synth := &stubSynthesizer{}

	p := newTestPipeline(t, cfg, fetcher, nil, synth)
	ep, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if filepath.Base(ep.AudioPath) != "flash_2026-08-29.mp3" {
		t.Errorf("AudioPath = %q", ep.AudioPath)
	}
	if ep.GUID != "flash_2026-08-29.mp3" {
		t.Errorf("GUID = %q", ep.GUID)
	}
	if !strings.HasPrefix(ep.AudioURL, "https://alice.github.io/flash-actu/") {
		t.Errorf("AudioURL = %q", ep.AudioURL)
	}
	if !strings.HasSuffix(ep.AudioURL, "flash_2026-08-29.mp3") {
		t.Errorf("AudioURL = %q", ep.AudioURL)
	}

	data, err := os.ReadFile(ep.TranscriptPath)
	if err != nil {
		t.Fatalf("transcript not written: %v", err)
	}
	if string(data) != ep.Script {
		t.Error("transcript content differs from script")
	}
}
