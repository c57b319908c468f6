package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"noctua/internal/app"
	"noctua/internal/config"
	"noctua/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: config.yaml, config.yml)")
	flag.Parse()

	stage := flag.Arg(0)
	if stage == "" {
		stage = "run"
	}

	// .env is optional; real env vars still win.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level)
	application := app.New(cfg, logger)

	if err := application.Run(context.Background(), stage); err != nil {
		logger.Error("stage failed", "stage", stage, "error", err)
		os.Exit(1)
	}
}
