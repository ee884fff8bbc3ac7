package main

import (
	"context"
	"log"
	"os"

	"flightwatch/internal/config"
	"flightwatch/internal/worker"
)

func main() {

	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("FLIGHTWATCH_CONFIG"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := worker.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
