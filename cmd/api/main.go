package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pdf2docx/internal/bootstrap"
	"pdf2docx/internal/shared/config"
	"pdf2docx/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "pdf2docx-api",
	})

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Serve(ctx, app); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
