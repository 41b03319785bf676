package main

import (
	"context"
	"flag"
	"log"

	"github.com/robfig/cron/v3"

	"flash-actu/pkg/app"
	"flash-actu/pkg/config"
)

// Long-running mode: the pipeline is triggered by a cron schedule
// (one run per day by default) instead of a one-shot invocation.
func main() {
	cfg := config.Load()

	spec := flag.String("cron", cfg.CronSpec, "Cron schedule for the daily run")
	runAtStart := flag.Bool("run-at-start", false, "Run the pipeline once immediately at startup")
	flag.Parse()

	ctx := context.Background()
	p, cleanup, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("daemon: %v", err)
	}
	defer cleanup(ctx)

	run := func() {
		ep, err := p.Run(ctx)
		if err != nil {
			// a failed run must not kill the daemon; the next trigger retries
			log.Printf("daemon: run failed: %v", err)
			return
		}
		log.Printf("daemon: published %s", ep.GUID)
	}

	c := cron.New()
	if _, err := c.AddFunc(*spec, run); err != nil {
		log.Fatalf("daemon: invalid cron spec %q: %v", *spec, err)
	}

	if *runAtStart {
		run()
	}

	log.Printf("daemon: scheduled with spec %q", *spec)
	c.Run()
}
