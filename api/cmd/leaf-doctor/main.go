package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"leaf-doctor/api/internal/config"
	"leaf-doctor/api/internal/handle"
	"leaf-doctor/api/internal/httpserver"
	"leaf-doctor/api/internal/inference"
	"leaf-doctor/api/internal/inference/gemini"
	"leaf-doctor/api/internal/upload"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot, _ := zap.NewProduction()
		boot.Sugar().Fatalw("failed loading config", "error", err)
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic("Failed init logger")
	}
	log := logger.Sugar()
	defer func() {
		_ = log.Sync()
	}()

	client, err := gemini.New(context.Background(), cfg.APIKey, cfg.Model)
	if err != nil {
		log.Fatalw("failed creating gemini client", "error", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Warnw("failed closing gemini client", "error", err)
		}
	}()

	store, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalw("failed preparing upload dir", "dir", cfg.UploadDir, "error", err)
	}

	h := handle.New(inference.New(client.Model(), cfg.Model), store, log, cfg.RequestTimeout())
	e := httpserver.New(httpserver.Options{
		Handle:        h,
		Log:           log,
		MaxUploadSize: cfg.MaxUploadSize,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infow("leaf-doctor starting", "model", cfg.Model, "upload_dir", store.Dir(), "timeout", cfg.RequestTimeout().String())
	if err := httpserver.StartHTTP(ctx, e, ":"+cfg.Port, log); err != nil {
		log.Errorw("server stopped", "error", err)
		os.Exit(1)
	}
}
