//go:build ebiten

package main

import (
	"errors"
	"flag"

	"canvas-grid/internal/app"
	"canvas-grid/internal/log"
	_ "canvas-grid/internal/scenes"
	"canvas-grid/internal/store"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := log.FromEnv("LOG_LEVEL")

	db, backend, err := store.Open()
	if err != nil {
		logger.Warnf("%s persistence unavailable, save/load disabled: %v", backend, err)
		db = nil
	} else {
		defer db.Close()
	}

	session, err := app.NewSession(cfg, db, logger)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	game := app.New(session, logger, cfg.Width, cfg.Height)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("gridview - " + session.SceneName())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatalf("%v", err)
	}
}
