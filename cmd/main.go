package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"calibration_analyzer/internal/application"
	"calibration_analyzer/internal/config"
	"calibration_analyzer/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logx.NewLogger(os.Stderr, "info", "").Error("config.Load", logx.Error(err))
		os.Exit(1)
	}

	log := logx.NewLogger(os.Stdout, cfg.App.LogLevel, cfg.App.LogFormat).
		With(logx.FieldAppName, cfg.App.Name, logx.FieldAppVersion, cfg.App.Version)

	if err := application.Run(ctx, cfg, log); err != nil {
		log.Error("application failed", logx.Error(err))
		cancel()
		os.Exit(1) //nolint:gocritic
	}

	log.Info("application stopped")
}
