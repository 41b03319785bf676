package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"flash-actu/pkg/config"
	"flash-actu/pkg/db"
	"flash-actu/pkg/domain"
	"flash-actu/pkg/feed"
	"flash-actu/pkg/generate"
	"flash-actu/pkg/script"
	"flash-actu/pkg/sources"
	"flash-actu/pkg/tts"
)

// Stage labels the steps of a run, in execution order.
type Stage string

const (
	StageFetching     Stage = "fetching"
	StageComposing    Stage = "composing"
	StageGenerating   Stage = "generating"
	StageBounding     Stage = "bounding"
	StageFallback     Stage = "fallback-composing"
	StageSynthesizing Stage = "synthesizing"
	StagePublishing   Stage = "publishing"
	StageDone         Stage = "done"
)

// Pipeline sequences one full run: collect headlines, compose a script
// (generated or fallback), synthesize audio, write artifacts and register
// the episode in the feed document. Runs are sequential and
// run-to-completion; there is no mid-run cancellation beyond the context
// passed to the collaborators.
type Pipeline struct {
	cfg         *config.Config
	collector   *sources.Collector
	generator   generate.Generator // nil disables generation entirely
	synthesizer tts.Synthesizer
	publisher   *feed.Publisher
	store       db.Store // nil disables archiving
	now         func() time.Time
}

// New wires a pipeline from its collaborators. A nil generator skips the
// generation stage and always uses the fallback script.
func New(cfg *config.Config, collector *sources.Collector, generator generate.Generator, synthesizer tts.Synthesizer, publisher *feed.Publisher) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		collector:   collector,
		generator:   generator,
		synthesizer: synthesizer,
		publisher:   publisher,
		now:         parisNow,
	}
}

// SetStore enables the optional episode archive.
func (p *Pipeline) SetStore(s db.Store) {
	p.store = s
}

// SetNow overrides the clock. Used by tests.
func (p *Pipeline) SetNow(now func() time.Time) {
	p.now = now
}

// Run executes one complete run and returns the published episode.
func (p *Pipeline) Run(ctx context.Context) (*domain.Episode, error) {
	today := p.now()
	dateLabel := script.DateLabel(today)
	ymd := today.Format("2006-01-02")

	log.Printf("Pipeline: stage=%s sources=%d", StageFetching, len(p.cfg.Sources))
	items, err := p.collector.Collect(ctx, p.cfg.Sources)
	if err != nil {
		// ErrNoContent: nothing to compose from, run is over
		return nil, err
	}

	log.Printf("Pipeline: stage=%s items=%d", StageComposing, len(items))
	prompt := script.BuildPrompt(items, dateLabel)

	text, info := p.composeScript(ctx, prompt, items, dateLabel)

	log.Printf("Pipeline: stage=%s words=%d", StageSynthesizing, script.WordCount(text))
	audio, err := p.synthesizer.Synthesize(ctx, text, p.cfg.VoiceLang)
	if err != nil {
		return nil, &SynthesisError{Err: err}
	}

	audioPath, transcriptPath, err := p.writeArtifacts(ymd, audio, text)
	if err != nil {
		return nil, err
	}

	ep := &domain.Episode{
		Title:          "Flash du " + dateLabel,
		Description:    "Flash du " + dateLabel,
		Date:           today,
		GUID:           filepath.Base(audioPath),
		AudioPath:      audioPath,
		TranscriptPath: transcriptPath,
		AudioURL:       p.cfg.BaseURL + "/" + filepath.ToSlash(audioPath),
		Script:         text,
		Generation:     info,
	}

	log.Printf("Pipeline: stage=%s feed=%s", StagePublishing, p.publisher.Path())
	if err := p.publisher.Publish(feed.NewEntry(ep, int64(len(audio)))); err != nil {
		// audio and transcript stay on disk for a retried publish
		return nil, &PublishError{Err: err}
	}

	p.archive(ctx, ep)

	log.Printf("Pipeline: stage=%s audio=%s fallback=%v", StageDone, audioPath, info.Fallback)
	return ep, nil
}

// composeScript runs the generation stage with its fallback. Generation
// errors are logged and absorbed, never escalated: the deterministic
// fallback script always exists.
func (p *Pipeline) composeScript(ctx context.Context, prompt string, items []domain.NewsItem, dateLabel string) (string, domain.GenerationInfo) {
	if p.generator != nil {
		log.Printf("Pipeline: stage=%s model=%s", StageGenerating, p.cfg.OpenAIModel)
		text, err := p.generator.Generate(ctx, prompt)
		if err == nil {
			log.Printf("Pipeline: stage=%s max=%d", StageBounding, p.cfg.MaxWords)
			return script.ClampWords(text, p.cfg.MaxWords), domain.GenerationInfo{
				Model:    p.cfg.OpenAIModel,
				Fallback: false,
			}
		}
		log.Printf("Pipeline: WARN generation unavailable, using fallback script: %v", err)
	}

	log.Printf("Pipeline: stage=%s", StageFallback)
	return script.Fallback(items, dateLabel, p.cfg.FallbackMaxItems), domain.GenerationInfo{
		Model:    "none",
		Fallback: true,
	}
}

// writeArtifacts persists the audio and transcript files for the day.
// Both are written before publishing so a failed publish can be retried
// from them.
func (p *Pipeline) writeArtifacts(ymd string, audio []byte, text string) (audioPath, transcriptPath string, err error) {
	if err := os.MkdirAll(p.cfg.OutDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory: %w", err)
	}

	audioPath = filepath.Join(p.cfg.OutDir, "flash_"+ymd+".mp3")
	if err := os.WriteFile(audioPath, audio, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write audio file: %w", err)
	}

	transcriptPath = filepath.Join(p.cfg.OutDir, "flash_"+ymd+".txt")
	if err := os.WriteFile(transcriptPath, []byte(text), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write transcript file: %w", err)
	}

	return audioPath, transcriptPath, nil
}

// archive saves the episode to the optional store. Failures are warnings.
func (p *Pipeline) archive(ctx context.Context, ep *domain.Episode) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveEpisode(ctx, ep); err != nil {
		log.Printf("Pipeline: WARN episode archive failed: %v", err)
	}
}

// parisNow returns the current time in the bulletin's timezone.
func parisNow() time.Time {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return time.Now()
	}
	return time.Now().In(loc)
}
