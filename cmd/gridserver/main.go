package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"canvas-grid/internal/core"
	"canvas-grid/internal/log"
	_ "canvas-grid/internal/scenes"
	"canvas-grid/internal/server"
	"canvas-grid/internal/store"
)

func main() {
	cfg := server.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := log.FromEnv("LOG_LEVEL")
	if _, ok := core.Scenes()[cfg.Scene]; !ok {
		logger.Fatalf("unknown scene %q (have %v)", cfg.Scene, core.SceneNames())
	}

	db, backend, err := store.Open()
	if err != nil {
		logger.Fatalf("failed to initialize %s persistence: %v", backend, err)
	}
	defer db.Close()
	logger.Infof("using %s persistence", backend)

	srv, err := server.New(*cfg, db, logger)
	if err != nil {
		logger.Fatalf("failed to start: %v", err)
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/ws", srv.Handler())
	httpServer := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("run: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdown)
	}()

	logger.Infof("server listening on %s", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("listen: %v", err)
	}
	if err := srv.Save(); err != nil {
		logger.Errorf("save on exit: %v", err)
	}
}
