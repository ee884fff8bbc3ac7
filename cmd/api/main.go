package main

import (
	"context"
	"log"
	"os"

	"flightwatch/internal/api"
	"flightwatch/internal/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("FLIGHTWATCH_CONFIG"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := api.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
