package main

import (
	"context"
	"log"

	"flash-actu/pkg/app"
	"flash-actu/pkg/config"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	p, cleanup, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("flash-actu: %v", err)
	}
	defer cleanup(ctx)

	ep, err := p.Run(ctx)
	if err != nil {
		log.Fatalf("flash-actu: %v", err)
	}

	log.Printf("OK audio : %s", ep.AudioPath)
	log.Printf("OK flux  : %s", app.FeedPath(cfg))
}
