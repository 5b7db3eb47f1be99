package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"callpal-go/internal/config"
	"callpal-go/internal/logger"
	"callpal-go/internal/pipeline"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{Environment: cfg.Environment, Level: cfg.LogLevel})
	log.WithField("service", "callpal-go").Info("starting service")

	services, err := pipeline.Build(cfg, log, nil)
	if err != nil {
		log.WithError(err).Fatal("failed to build services")
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:        addr,
		Handler:     services.Router(nil),
		ReadTimeout: 15 * time.Second,
		// transcripts poll for up to a minute
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if cerr := services.Close(); cerr != nil {
		log.WithError(cerr).Warn("closing services")
	}
	if err != nil {
		log.WithError(err).Error("server terminated")
		os.Exit(1)
	}
}
