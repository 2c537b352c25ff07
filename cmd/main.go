package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"virtualroom/internal/app"
	"virtualroom/internal/config"
	"virtualroom/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Config error: %v", err)
		os.Exit(1)
	}

	app := app.NewApp(cfg)
	if err := app.Initialize(); err != nil {
		logger.Error("Init error: %v", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		logger.Error("Start error: %v", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.Stop(ctx); err != nil {
		logger.Error("Stop error: %v", err)
	}
}
