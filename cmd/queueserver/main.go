// Command queueserver runs the priority task-queue HTTP service.
package main

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/skyscape-labs/queueservice/facade"
	"github.com/skyscape-labs/queueservice/httpapi"
	"github.com/skyscape-labs/queueservice/queuecore"
	"github.com/skyscape-labs/queueservice/snapshot"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	port := cmp.Or(os.Getenv("PORT"), "8080")
	primaryPath := cmp.Or(os.Getenv("SNAPSHOT_FILE"), snapshot.DefaultPrimaryFile)
	tempPath := cmp.Or(os.Getenv("SNAPSHOT_TEMP_FILE"), snapshot.DefaultTempFile)
	interval := snapshot.DefaultInterval
	if raw := os.Getenv("SNAPSHOT_INTERVAL_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			interval = time.Duration(secs) * time.Second
		}
	}

	registry := queuecore.NewRegistry()
	engine := snapshot.New(registry,
		snapshot.WithPaths(primaryPath, tempPath),
		snapshot.WithInterval(interval),
		snapshot.WithLogger(log),
	)

	log.Info("loading snapshot", "path", primaryPath)
	if err := engine.Load(); err != nil {
		log.Error("snapshot load failed, starting with an empty registry", "error", err)
	}
	engine.Run()

	svc := facade.New(registry)
	server := httpapi.NewServer(svc, log)

	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: httpapi.WithRequestLogging(log, server),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("queue service listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	log.Info("writing final snapshot")
	if err := engine.Stop(); err != nil {
		log.Error("final snapshot save failed", "error", err)
	}
}
