package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"landmass/internal/config"
	"landmass/internal/game"
	"landmass/internal/logger"
	"landmass/internal/preview"

	"github.com/xlab/closer"
	"go.uber.org/zap"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "landmass:", err)
		os.Exit(1)
	}

	log, err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "landmass: logger:", err)
		os.Exit(1)
	}
	closer.Bind(logger.Sync)

	switch cfg.Run {
	case config.RunPreview:
		go runPreview(cfg, log)
	default:
		go runSession(cfg, log)
	}
	closer.Hold()
}

func runPreview(cfg *config.Config, log *zap.Logger) {
	if err := preview.Export(cfg.Preview, cfg.HeightSettings(), cfg.Mesh, log.Named("preview")); err != nil {
		log.Error("preview export failed", zap.Error(err))
		closer.Exit(1)
		return
	}
	closer.Close()
}

func runSession(cfg *config.Config, log *zap.Logger) {
	session, err := game.NewSession(cfg, log)
	if err != nil {
		log.Error("session setup failed", zap.Error(err))
		closer.Exit(1)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	closer.Bind(func() {
		cancel()
		<-done
		session.Close()
	})

	err = session.Run(ctx)
	close(done)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("session failed", zap.Error(err))
		closer.Exit(1)
		return
	}
	closer.Close()
}
