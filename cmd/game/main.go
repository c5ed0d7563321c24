package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/tatianab/student-sim/internal/achievements"
	"github.com/tatianab/student-sim/internal/config"
	"github.com/tatianab/student-sim/internal/content"
	"github.com/tatianab/student-sim/internal/engine"
	"github.com/tatianab/student-sim/internal/legacy"
	"github.com/tatianab/student-sim/internal/narrator"
	"github.com/tatianab/student-sim/internal/storage"
	"github.com/tatianab/student-sim/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(cfg.SaveDir, 0755); err != nil {
		return fmt.Errorf("creating save dir: %w", err)
	}
	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(filepath.Join(cfg.SaveDir, "game.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	log := logrus.New()
	log.SetOutput(logFile)
	log.SetFormatter(&logrus.JSONFormatter{})
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)

	tables, err := content.Default()
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	saves, err := storage.Open(cfg.Storage, cfg.StoragePath())
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer saves.Close()

	opts := []engine.Option{
		engine.WithLogger(log),
		engine.WithStorage(saves, cfg.Slot),
	}
	if cfg.Seed != 0 {
		opts = append(opts, engine.WithSeed(cfg.Seed))
	}
	store := engine.New(tables, opts...)

	keeper, err := legacy.Open(cfg.SaveDir, tables, log)
	if err != nil {
		return fmt.Errorf("opening legacy: %w", err)
	}
	store.Subscribe(keeper.Subscriber())

	tracker, err := achievements.Open(cfg.SaveDir, tables, log)
	if err != nil {
		return fmt.Errorf("opening achievements: %w", err)
	}
	store.Subscribe(tracker.Subscriber())

	resumed, err := store.Load(ctx)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"slot": cfg.Slot, "resumed": resumed, "storage": cfg.Storage}).Info("Game starting")

	deps := tui.Deps{
		Store:        store,
		Legacy:       keeper,
		Achievements: tracker,
		Log:          log,
	}
	if cfg.NarratorEnabled() {
		n, err := narrator.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, tables, log)
		if err != nil {
			log.WithError(err).Warn("Narrator disabled")
		} else {
			defer n.Close()
			deps.Narrator = n
		}
	}

	if err := tui.Run(deps); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
