package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"flash-actu/pkg/config"
	"flash-actu/pkg/db"
	"flash-actu/pkg/feed"
	"flash-actu/pkg/generate"
	"flash-actu/pkg/pipeline"
	"flash-actu/pkg/sources"
	"flash-actu/pkg/tts"
)

// Build wires a pipeline and its collaborators from configuration.
// The returned cleanup closes any opened archive connection and is safe
// to call unconditionally.
func Build(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, func(context.Context), error) {
	collector := sources.NewCollector(sources.NewFeedFetcher(cfg.SourceTimeout), cfg.MaxPerSource, cfg.SummaryMaxLen)
	if cfg.EnrichSummaries {
		collector.SetEnricher(sources.NewEnricher(cfg.SourceTimeout))
	}

	var generator generate.Generator
	if cfg.OpenAIKey != "" {
		generator = generate.NewOpenAIClient(generate.Config{
			APIKey:  cfg.OpenAIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.GenerateTimeout,
		})
	} else {
		log.Printf("app: OPENAI_API_KEY not set, every run will use the fallback script")
	}

	synthesizer := tts.NewGoogleTranslateClient(cfg.SynthesizeTimeout)

	publisher := feed.NewPublisher(FeedPath(cfg), feed.Channel{
		Title:       cfg.FeedTitle,
		Link:        cfg.BaseURL,
		Description: cfg.FeedDescription,
		Language:    cfg.VoiceLang,
	}, cfg.FeedRetention)

	p := pipeline.New(cfg, collector, generator, synthesizer, publisher)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, func(context.Context) {}, err
	}
	cleanup := func(context.Context) {}
	if store != nil {
		p.SetStore(store)
		cleanup = func(ctx context.Context) {
			if err := store.Close(ctx); err != nil {
				log.Printf("app: WARN closing archive: %v", err)
			}
		}
	}

	return p, cleanup, nil
}

// FeedPath returns the feed document location for a configuration.
func FeedPath(cfg *config.Config) string {
	return filepath.Join(cfg.OutDir, "feed.xml")
}

// openStore opens the configured episode archive, if any.
func openStore(ctx context.Context, cfg *config.Config) (db.Store, error) {
	switch cfg.ArchiveBackend {
	case "":
		return nil, nil
	case "mongo":
		return db.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case "postgres":
		return db.NewPostgresClient(ctx, db.PostgresConfig{DSN: cfg.PostgresDSN})
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.ArchiveBackend)
	}
}
