package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/carblock/internal/server"
	"github.com/dmitrijs2005/carblock/internal/server/config"
)

// set via -ldflags "-X main.buildVersion=..."
var buildVersion = "N/A"

func main() {
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg, buildVersion)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
