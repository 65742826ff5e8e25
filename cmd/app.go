package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dayplan/pkg/category"
	"github.com/harrisonrobin/dayplan/pkg/colors"
	"github.com/harrisonrobin/dayplan/pkg/config"
	"github.com/harrisonrobin/dayplan/pkg/logging"
	"github.com/harrisonrobin/dayplan/pkg/planner"
	"github.com/harrisonrobin/dayplan/pkg/storage"
	"github.com/harrisonrobin/dayplan/pkg/storage/sqlite"
	"github.com/harrisonrobin/dayplan/pkg/store"
)

// app is the wiring shared by every command.
type app struct {
	cfg        *config.Config
	storage    storage.Storage
	categories *category.Registry
	planner    *planner.Service
	theme      colors.Theme
	dark       bool
	closer     func() error
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if changed(cmd, "state") {
		cfg.StatePath = statePath
	}
	if changed(cmd, "backend") {
		cfg.Backend = backend
	}
	if changed(cmd, "dark") {
		cfg.DarkMode = darkMode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func openStorage(cfg *config.Config) (storage.Storage, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendMemory:
		logging.Debug("cmd", "using in-memory storage; nothing will be persisted")
		return storage.NewMemory(), noop, nil
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.StatePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		f, err := storage.NewFile(cfg.StatePath)
		if err != nil {
			return nil, nil, err
		}
		return f, noop, nil
	}
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s, closeFn, err := openStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Backend, err)
	}

	theme := cfg.ResolvedTheme()
	registry := category.NewRegistry(s)
	return &app{
		cfg:        cfg,
		storage:    s,
		categories: registry,
		planner: planner.New(store.NewTaskStore(s), registry,
			planner.WithStartHour(cfg.StartHour),
			planner.WithTheme(theme, cfg.DarkMode),
		),
		theme:  theme,
		dark:   cfg.DarkMode,
		closer: closeFn,
	}, nil
}

// withApp opens the app for the duration of fn.
func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.closer(); err != nil {
			logging.Warn("cmd", "failed to close storage: %v", err)
		}
	}()
	return fn(a)
}
