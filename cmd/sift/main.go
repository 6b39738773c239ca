package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/siftlab/sift/internal/app"
	"github.com/siftlab/sift/internal/config"
	"github.com/siftlab/sift/internal/dataset"
	"github.com/siftlab/sift/internal/history"
	"github.com/siftlab/sift/internal/schema"
	"github.com/siftlab/sift/internal/views"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: sift <schema.yaml> [dataset.json|dataset.csv]")
		fmt.Fprintln(os.Stderr, "With no dataset file, records load from postgres per config.yaml.")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		cfg = config.GetDefaults()
	}

	log, logFile := setupLogger(cfg)
	if logFile != nil {
		defer func() { _ = logFile.Close() }()
	}

	s, err := schema.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading schema: %v\n", err)
		os.Exit(1)
	}

	ds, err := loadDataset(cfg, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{
		"dataset": ds.Name,
		"records": len(ds.Records),
		"fields":  len(s.Fields),
	}).Info("dataset loaded")

	var viewsMgr *views.Manager
	var store *history.Store
	if configDir, err := config.Dir(); err == nil {
		if viewsMgr, err = views.NewManager(configDir); err != nil {
			log.WithError(err).Warn("saved views unavailable")
			viewsMgr = nil
		}
		if cfg.History.Enabled {
			if store, err = history.NewStore(filepath.Join(configDir, "history.db")); err != nil {
				log.WithError(err).Warn("history unavailable")
				store = nil
			} else if err := store.Prune(cfg.History.MaxEntries); err != nil {
				log.WithError(err).Warn("failed to prune history")
			}
		}
	} else {
		log.WithError(err).Warn("config directory unavailable")
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	model := app.New(cfg, log, s, ds, viewsMgr, store)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger builds the application logger. Logs go to a file in the
// config directory so they never corrupt the terminal UI; if that fails the
// logger discards output rather than writing to stderr.
func setupLogger(cfg *config.Config) (*logrus.Logger, *os.File) {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	configDir, err := config.Dir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return log, nil
	}

	path := filepath.Join(configDir, cfg.Log.File)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return log, nil
	}

	log.SetOutput(f)
	return log, f
}

func loadDataset(cfg *config.Config, s *schema.Schema) (*dataset.Dataset, error) {
	if len(os.Args) >= 3 {
		return dataset.Load(os.Args[2], s)
	}
	if cfg.Postgres.DSN == "" || cfg.Postgres.Query == "" {
		return nil, fmt.Errorf("no dataset file given and postgres is not configured")
	}
	return dataset.LoadPostgres(context.Background(), cfg.Postgres.DSN, cfg.Postgres.Query)
}
