package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/skielred/twitter-images-collector/pkg/config"
	"github.com/skielred/twitter-images-collector/pkg/feed"
	"github.com/skielred/twitter-images-collector/pkg/logger"
	"github.com/skielred/twitter-images-collector/pkg/media"
	"github.com/skielred/twitter-images-collector/pkg/poller"
	"github.com/skielred/twitter-images-collector/pkg/server"
	"github.com/skielred/twitter-images-collector/pkg/store"
	"github.com/skielred/twitter-images-collector/pkg/twitter"
)

func run(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	st, err := store.NewSQLite(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	lib, err := media.NewLibrary(cfg.Images.Dir, log)
	if err != nil {
		return fmt.Errorf("failed to open image directory: %w", err)
	}

	client, err := twitter.NewClient(&cfg.Twitter, log)
	if err != nil {
		return fmt.Errorf("failed to create twitter client: %w", err)
	}

	resolver := media.NewResolver(client, lib, cfg.Poller.MediaRetryDelay, log)
	p := poller.New(client, resolver, st, &cfg.Poller, log)

	reader := feed.NewReader(st, cfg.Server.ContPath)
	srv := server.New(cfg, reader, lib, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.InfoWithFields("collector starting", map[string]interface{}{
		"timeline": cfg.Twitter.Timeline.Type,
		"images":   lib.Count(),
		"addr":     cfg.Server.Addr,
	})

	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		if err := p.Run(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
			log.WithError(err).Error("poller stopped")
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			cancel()
			return fmt.Errorf("http server failed: %w", err)
		}
	case s := <-sig:
		log.WithField("signal", s.String()).Info("shutting down")
	}

	cancel()
	<-pollerDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	log.Info("collector stopped")
	return nil
}
