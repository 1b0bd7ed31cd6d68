package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/carblock/internal/client/cli"
	"github.com/dmitrijs2005/carblock/internal/client/config"
)

// set via -ldflags "-X main.buildVersion=..."
var buildVersion = "1.0.0"

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg, buildVersion)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Run(ctx)
}
